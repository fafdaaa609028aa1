package service

import (
	"quizdraw/internal/repository"
	"quizdraw/pkg/config"
)

type Services struct {
	User      *UserService
	Room      *RoomService
	Round     *RoundService
	Wallet    *WalletService
	Palette   *PaletteService
	AdReward  *AdRewardService
	Gallery   *GalleryService
	WebSocket *WebSocketManager
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	wsManager := NewWebSocketManager()
	wallet := NewWalletService(repos.CoinTx)

	verifier := NewAdMobVerifier(cfg.Ad.KeysURL, cfg.Ad.KeysCacheTTL)

	return &Services{
		User:      NewUserService(repos.User),
		Room:      NewRoomService(repos.Room, repos.Player, repos.User, wsManager, cfg.Game.MaxRoomPlayers),
		Round:     NewRoundService(repos, wallet, wsManager, cfg.Game),
		Wallet:    wallet,
		Palette:   NewPaletteService(repos.Palette, wallet),
		AdReward:  NewAdRewardService(repos.AdReceipt, repos.User, wallet, verifier, cfg.Game, cfg.Ad.FreshnessWindow),
		Gallery:   NewGalleryService(repos.Player, repos.Drawing),
		WebSocket: wsManager,
	}
}
