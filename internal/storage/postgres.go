package storage

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type PostgresDB struct {
	*gorm.DB
}

func NewPostgresDB(host, user, password, dbname string, port int) (*PostgresDB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
		host, user, password, dbname, port)

	// TranslateError 讓唯一鍵衝突統一轉成 gorm.ErrDuplicatedKey，
	// 冪等性判斷依賴這個行為
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	return &PostgresDB{DB: db}, nil
}

func (db *PostgresDB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate 自動遷移資料庫結構
func (db *PostgresDB) AutoMigrate(models ...interface{}) error {
	return db.DB.AutoMigrate(models...)
}

// EnsureConstraints 建立 AutoMigrate 無法表達的約束。
// 每個房間同時只能有一個 playing 狀態的回合，
// 用部分唯一索引在插入時原子地擋下重複開局。
func (db *PostgresDB) EnsureConstraints() error {
	return db.DB.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_rounds_room_playing
		 ON rounds (room_id) WHERE status = 'playing'`,
	).Error
}
