package models

import (
	"gorm.io/gorm"
)

// CoinTx 表示一筆金幣帳本記錄。
//
// 帳本只追加、不修改也不刪除，餘額永遠是某用戶所有記錄金額的總和，
// 系統中沒有可變的餘額欄位。idem_key 的唯一索引是冪等性的唯一機制：
// 重送的請求在插入時撞鍵，直接視為已處理。
type CoinTx struct {
	gorm.Model
	UserID     uint       `gorm:"index;not null" json:"user_id"`
	Type       CoinTxType `gorm:"size:16;not null;index:idx_coin_tx_user_type,priority:2" json:"type"`
	Amount     int        `gorm:"not null" json:"amount"` // 正數為入帳，負數為扣款
	RefRoundID *uint      `json:"ref_round_id"`           // 來源回合（如果有）
	RefAdTxID  string     `gorm:"size:128" json:"ref_ad_tx_id,omitempty"`
	IdemKey    string     `gorm:"size:128;uniqueIndex;not null" json:"idem_key"`
	CreatedBy  string     `gorm:"size:64;not null" json:"created_by"` // 發起來源的標記，例如 api:submit-guess
}

// CoinTxType 定義帳本記錄的類型
type CoinTxType string

const (
	CoinTxSend     CoinTxType = "SEND"      // 畫圖者出題獎勵
	CoinTxReceive  CoinTxType = "RECEIVE"   // 猜對者獎勵
	CoinTxRedeem   CoinTxType = "REDEEM"    // 消費扣款（解鎖調色盤）
	CoinTxAdReward CoinTxType = "AD_REWARD" // 廣告獎勵
)

// AdReceipt 表示一次已驗證的廣告獎勵回呼收據。
// 與對應的 CoinTx 共用同一組冪等鍵，廣告網路重送通知時直接回放。
type AdReceipt struct {
	gorm.Model
	IdemKey      string `gorm:"size:128;uniqueIndex;not null" json:"idem_key"`
	UserID       uint   `gorm:"index;not null" json:"user_id"`
	ProviderTxID string `gorm:"size:128;not null" json:"provider_tx_id"`
	KeyID        string `gorm:"size:32;not null" json:"key_id"`
	Signature    string `gorm:"type:text;not null" json:"-"`
	Payload      string `gorm:"type:jsonb" json:"-"` // 原始回呼內容，保留作稽核
	Amount       int    `gorm:"not null" json:"amount"`
}
