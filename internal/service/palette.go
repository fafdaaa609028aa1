package service

import (
	"errors"

	"quizdraw/internal/models"
	"quizdraw/internal/repository"
	"quizdraw/internal/utils"
)

// PaletteService 管理調色盤商店與解鎖。
// 解鎖是帳本的扣款端：REDEEM 記錄金額為負，冪等鍵由 (REDEEM, 用戶, 調色盤)
// 推導，重複解鎖被吸收而不會扣兩次錢。
type PaletteService struct {
	paletteRepo repository.PaletteRepository
	wallet      *WalletService
}

func NewPaletteService(paletteRepo repository.PaletteRepository, wallet *WalletService) *PaletteService {
	return &PaletteService{paletteRepo: paletteRepo, wallet: wallet}
}

// PaletteInfo 是商店清單中的一項
type PaletteInfo struct {
	models.Palette
	Unlocked bool `json:"unlocked"`
}

// UnlockResult 是解鎖操作的結果
type UnlockResult struct {
	Palette          *models.Palette
	PricePaid        int
	RemainingBalance int64
	AlreadyUnlocked  bool
}

// List 回傳所有調色盤並標記用戶已解鎖的項目
func (s *PaletteService) List(userID uint) ([]PaletteInfo, error) {
	palettes, err := s.paletteRepo.FindAll()
	if err != nil {
		return nil, err
	}

	unlockedIDs, err := s.paletteRepo.FindUnlockedIDs(userID)
	if err != nil {
		return nil, err
	}
	unlocked := make(map[uint]bool, len(unlockedIDs))
	for _, id := range unlockedIDs {
		unlocked[id] = true
	}

	infos := make([]PaletteInfo, 0, len(palettes))
	for _, p := range palettes {
		infos = append(infos, PaletteInfo{Palette: p, Unlocked: unlocked[p.ID] || p.Price == 0})
	}
	return infos, nil
}

// Unlock 解鎖調色盤並從帳本扣款。重複解鎖是冪等的。
func (s *PaletteService) Unlock(userID, paletteID uint) (*UnlockResult, error) {
	palette, err := s.paletteRepo.FindByID(paletteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPaletteNotFound
		}
		return nil, err
	}

	if _, err := s.paletteRepo.FindUnlock(userID, paletteID); err == nil {
		balance, balErr := s.wallet.Balance(userID)
		if balErr != nil {
			return nil, balErr
		}
		return &UnlockResult{Palette: palette, RemainingBalance: balance, AlreadyUnlocked: true}, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	pricePaid := 0
	if palette.Price > 0 {
		balance, err := s.wallet.Balance(userID)
		if err != nil {
			return nil, err
		}
		if balance < int64(palette.Price) {
			return nil, ErrInsufficientBalance
		}

		applied, err := s.wallet.Credit(userID, models.CoinTxRedeem, -palette.Price,
			utils.IdemKey("REDEEM", userID, paletteID), nil, "", "api:unlock-palette")
		if err != nil {
			return nil, err
		}
		if applied {
			pricePaid = palette.Price
		}
		// applied=false 表示之前已扣過款（例如解鎖記錄寫入前中斷），
		// 這次只補上解鎖記錄、不再收費
	}

	unlock := &models.UserPalette{UserID: userID, PaletteID: paletteID}
	if err := s.paletteRepo.CreateUnlock(unlock); err != nil && !errors.Is(err, repository.ErrDuplicateKey) {
		return nil, err
	}

	balance, err := s.wallet.Balance(userID)
	if err != nil {
		return nil, err
	}

	return &UnlockResult{Palette: palette, PricePaid: pricePaid, RemainingBalance: balance}, nil
}
