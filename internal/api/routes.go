package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quizdraw/internal/api/handlers"
	"quizdraw/internal/middleware"
	"quizdraw/internal/service"
)

func SetupRoutes(r *gin.Engine, services *service.Services) {
	// 初始化 handlers
	authHandler := handlers.NewAuthHandler(services.User)
	roomHandler := handlers.NewRoomHandler(services.Room)
	roundHandler := handlers.NewRoundHandler(services.Round)
	walletHandler := handlers.NewWalletHandler(services.Wallet)
	paletteHandler := handlers.NewPaletteHandler(services.Palette)
	adRewardHandler := handlers.NewAdRewardHandler(services.AdReward)
	galleryHandler := handlers.NewGalleryHandler(services.Gallery)
	wsHandler := handlers.NewWebSocketHandler(services.WebSocket, services.Room)

	// API 路由群組
	api := r.Group("/api")

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "找不到該路徑",
		})
	})

	// 公開路由
	{
		// 用戶認證相關
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		// 廣告網路的伺服器端回呼，憑簽名驗證而不是用戶 token
		api.POST("/ads/verify", adRewardHandler.VerifyAdReward)

		// 基本的健康檢查
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})
	}

	// 需要驗證的路由
	authorized := api.Group("/")
	authorized.Use(middleware.AuthMiddleware())
	{
		// 遊戲房間相關
		rooms := authorized.Group("/rooms")
		{
			rooms.POST("", roomHandler.CreateRoom)        // 創建房間
			rooms.POST("/join", roomHandler.JoinRoom)     // 以代碼加入房間
			rooms.GET("/:id", roomHandler.GetRoom)        // 獲取房間信息
			rooms.POST("/:id/rounds", roundHandler.StartRound) // 開始新回合

			// WebSocket 連接點
			rooms.GET("/:id/ws", wsHandler.HandleWebSocket)
		}

		// 回合與猜題
		rounds := authorized.Group("/rounds")
		{
			rounds.POST("/:id/guesses", roundHandler.SubmitGuess)
		}

		// 金幣錢包
		wallet := authorized.Group("/wallet")
		{
			wallet.GET("/balance", walletHandler.GetBalance)
			wallet.GET("/transactions", walletHandler.GetTransactions)
		}

		// 調色盤商店
		palettes := authorized.Group("/palettes")
		{
			palettes.GET("", paletteHandler.ListPalettes)
			palettes.POST("/:id/unlock", paletteHandler.UnlockPalette)
		}

		// 圖庫
		authorized.GET("/gallery", galleryHandler.GetGallery)
	}
}
