package repository

import (
	"errors"

	"gorm.io/gorm"

	"quizdraw/internal/storage"
)

// 儲存層的共用錯誤。服務層只認這兩個值，
// 不直接依賴 gorm 的錯誤類型。
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// translateError 把 gorm 的錯誤轉成儲存層的共用錯誤
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	default:
		return err
	}
}

type Repositories struct {
	User      UserRepository
	Room      RoomRepository
	Player    PlayerRepository
	Round     RoundRepository
	Guess     GuessRepository
	CoinTx    CoinTxRepository
	AdReceipt AdReceiptRepository
	Drawing   DrawingRepository
	Palette   PaletteRepository
}

func NewRepositories(db *storage.PostgresDB) *Repositories {
	return &Repositories{
		User:      NewUserRepository(db),
		Room:      NewRoomRepository(db),
		Player:    NewPlayerRepository(db),
		Round:     NewRoundRepository(db),
		Guess:     NewGuessRepository(db),
		CoinTx:    NewCoinTxRepository(db),
		AdReceipt: NewAdReceiptRepository(db),
		Drawing:   NewDrawingRepository(db),
		Palette:   NewPaletteRepository(db),
	}
}
