package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	DB     DBConfig
	Game   GameConfig
	Ad     AdConfig
}

type ServerConfig struct {
	Address string
}

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     int
}

// GameConfig 定義遊戲的業務規則（獎勵金額與每日上限等）
type GameConfig struct {
	SendReward      int // 畫圖者每回合的 SEND 獎勵
	ReceiveReward   int // 猜中者的 RECEIVE 獎勵
	AdReward        int // 看廣告的 AD_REWARD 獎勵
	DailySendCap    int // 每人每日 SEND 次數上限
	DailyReceiveCap int // 每人每日 RECEIVE 次數上限
	DailyAdCap      int // 每人每日廣告獎勵次數上限
	MaxRoomPlayers  int // 房間人數上限
	MaxRoomRounds   int // 單一房間的回合數上限
}

// AdConfig 定義廣告獎勵驗證（AdMob SSV）的相關設定
type AdConfig struct {
	KeysURL         string        // 公鑰清單的下載位址
	KeysCacheTTL    time.Duration // 公鑰快取的有效時間
	FreshnessWindow time.Duration // 回呼時間戳允許的誤差範圍
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./pkg/config")

	// 未提供設定檔欄位時的預設業務規則
	viper.SetDefault("game.sendreward", 10)
	viper.SetDefault("game.receivereward", 10)
	viper.SetDefault("game.adreward", 50)
	viper.SetDefault("game.dailysendcap", 10)
	viper.SetDefault("game.dailyreceivecap", 10)
	viper.SetDefault("game.dailyadcap", 5)
	viper.SetDefault("game.maxroomplayers", 8)
	viper.SetDefault("game.maxroomrounds", 20)
	viper.SetDefault("ad.keysurl", "https://gstatic.com/admob/reward/verifier-keys.json")
	viper.SetDefault("ad.keyscachettl", time.Hour)
	viper.SetDefault("ad.freshnesswindow", 5*time.Minute)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
