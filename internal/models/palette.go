package models

import (
	"gorm.io/gorm"
)

// Palette 表示商店中的調色盤
type Palette struct {
	gorm.Model
	Name  string `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Price int    `gorm:"not null" json:"price"` // 金幣價格，0 表示免費
}

// UserPalette 表示用戶已解鎖的調色盤
type UserPalette struct {
	gorm.Model
	UserID    uint `gorm:"not null;uniqueIndex:idx_user_palettes_user_palette" json:"user_id"`
	PaletteID uint `gorm:"not null;uniqueIndex:idx_user_palettes_user_palette" json:"palette_id"`
}
