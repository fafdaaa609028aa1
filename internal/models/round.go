package models

import (
	"time"

	"gorm.io/gorm"
)

// Round 表示一次畫圖與猜題的回合。
//
// 生命週期嚴格受限：由回合協調流程以 playing 狀態創建，
// 之後最多被修改一次 —— 第一個猜對的人透過條件更新
// 同時設定 status=ended 與 winner_user_id。回合永不刪除，保留作歷史記錄。
type Round struct {
	gorm.Model
	RoomID       uint        `gorm:"index;not null" json:"room_id"`
	DrawerUserID uint        `gorm:"not null" json:"drawer_user_id"` // 畫圖者，不能對自己的題目猜答案
	Answer       string      `gorm:"size:32;not null" json:"-"`      // 謎底不回傳給客戶端
	Status       RoundStatus `gorm:"size:16;not null" json:"status"`
	WinnerUserID *uint       `json:"winner_user_id"` // 只有在 ended 且有人猜對時非空
	StartedAt    time.Time   `gorm:"not null" json:"started_at"`
	EndedAt      *time.Time  `json:"ended_at"`
	Guesses      []Guess     `gorm:"foreignKey:RoundID" json:"-"`
}

// RoundStatus 定義回合狀態的類型
type RoundStatus string

const (
	RoundStatusPlaying RoundStatus = "playing"
	RoundStatusEnded   RoundStatus = "ended" // 終態，不會再轉移
)

// Guess 表示一次猜題提交，創建後不可變更
type Guess struct {
	gorm.Model
	RoundID        uint   `gorm:"index;not null" json:"round_id"`
	UserID         uint   `gorm:"index;not null" json:"user_id"`
	Text           string `gorm:"size:64;not null" json:"text"`
	NormalizedText string `gorm:"size:64;not null" json:"-"`
	IsCorrect      bool   `gorm:"not null" json:"is_correct"`
}

// Drawing 表示回合對應的畫作，只保存外部儲存的參照路徑
type Drawing struct {
	gorm.Model
	RoundID     uint   `gorm:"index;not null" json:"round_id"`
	StoragePath string `gorm:"not null" json:"storage_path"`
	Width       int    `gorm:"not null" json:"width"`
	Height      int    `gorm:"not null" json:"height"`
}
