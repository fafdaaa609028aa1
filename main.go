package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"quizdraw/internal/api"
	"quizdraw/internal/models"
	"quizdraw/internal/repository"
	"quizdraw/internal/service"
	"quizdraw/internal/storage"
	"quizdraw/pkg/config"
)

func main() {
	// 載入應用程式配置
	// 從配置文件中讀取設置，如數據庫連接信息、服務器地址與遊戲業務規則
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化資料庫連接
	db, err := storage.NewPostgresDB(cfg.DB.Host, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.Port)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	// 確保在程序結束時關閉數據庫連接
	defer db.Close()

	// 自動遷移資料庫結構
	if err := db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Player{},
		&models.Round{},
		&models.Guess{},
		&models.Drawing{},
		&models.CoinTx{},
		&models.AdReceipt{},
		&models.Palette{},
		&models.UserPalette{},
	); err != nil {
		log.Fatalf("Failed to auto migrate database: %v", err)
	}

	// 部分唯一索引等 AutoMigrate 表達不了的約束
	if err := db.EnsureConstraints(); err != nil {
		log.Fatalf("Failed to ensure database constraints: %v", err)
	}

	// 初始化 repositories
	repos := repository.NewRepositories(db)

	// 初始化 services
	services := service.NewServices(repos, cfg)

	// 設置 Gin 路由
	r := gin.Default()
	api.SetupRoutes(r, services)

	// 啟動伺服器
	if err := r.Run(cfg.Server.Address); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
