package models

import (
	"gorm.io/gorm"
)

// Room 表示一個你畫我猜的遊戲房間
type Room struct {
	gorm.Model
	Code      string     `gorm:"size:8;uniqueIndex;not null" json:"code"` // 6 位英數字的加入代碼
	Status    RoomStatus `gorm:"size:16;not null" json:"status"`
	CreatedBy uint       `gorm:"not null" json:"created_by"` // 創建者的用戶 ID
	Players   []Player   `gorm:"foreignKey:RoomID" json:"-"`
	Rounds    []Round    `gorm:"foreignKey:RoomID" json:"-"`
}

// RoomStatus 定義房間狀態的類型
type RoomStatus string

const (
	RoomStatusWaiting RoomStatus = "waiting" // 等待下一回合開始
	RoomStatusPlaying RoomStatus = "playing" // 有回合正在進行
	RoomStatusEnded   RoomStatus = "ended"   // 房間已關閉
)

// Player 表示用戶在某個房間中的成員身份
type Player struct {
	gorm.Model
	RoomID   uint   `gorm:"index;not null;uniqueIndex:idx_players_room_user" json:"room_id"`
	UserID   uint   `gorm:"not null;uniqueIndex:idx_players_room_user" json:"user_id"`
	Nickname string `gorm:"size:24;not null" json:"nickname"`
	Score    int    `gorm:"not null;default:0" json:"score"`
}
