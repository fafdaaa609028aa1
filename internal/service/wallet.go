package service

import (
	"errors"
	"time"

	"quizdraw/internal/models"
	"quizdraw/internal/repository"
)

// WalletService 是金幣帳本的唯一入口。
//
// 餘額沒有可變欄位，永遠由帳本記錄加總而得，因此不存在更新餘額的競態。
// 冪等性靠 idem_key 的唯一索引：同一個鍵的第二次插入會撞鍵，
// Credit 把它吸收成無操作而不是錯誤。
type WalletService struct {
	coinTxRepo repository.CoinTxRepository
}

func NewWalletService(coinTxRepo repository.CoinTxRepository) *WalletService {
	return &WalletService{coinTxRepo: coinTxRepo}
}

// Credit 嘗試寫入一筆帳本記錄。
// 回傳 applied=false 表示同一個冪等鍵已經處理過，沒有任何狀態被修改。
// 其他錯誤代表儲存層故障，呼叫方應帶著同一個鍵重試。
func (s *WalletService) Credit(userID uint, txType models.CoinTxType, amount int,
	idemKey string, refRoundID *uint, refAdTxID, createdBy string) (bool, error) {

	tx := &models.CoinTx{
		UserID:     userID,
		Type:       txType,
		Amount:     amount,
		RefRoundID: refRoundID,
		RefAdTxID:  refAdTxID,
		IdemKey:    idemKey,
		CreatedBy:  createdBy,
	}

	if err := s.coinTxRepo.Create(tx); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Balance 回傳用戶的金幣餘額，即所有帳本記錄金額的總和
func (s *WalletService) Balance(userID uint) (int64, error) {
	return s.coinTxRepo.SumAmountByUser(userID)
}

// UnderDailyCap 檢查用戶某類型獎勵在當前 UTC 日內是否還沒達到上限。
//
// 這個檢查和後續的 Credit 不在同一個原子操作裡：同時競爭的 N 個請求
// 可能都先通過檢查再入帳，上限最多被超出 N-1 筆。這是已知且有界的誤差，
// 不是靜默失敗。
func (s *WalletService) UnderDailyCap(userID uint, txType models.CoinTxType, cap int) (bool, error) {
	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	count, err := s.coinTxRepo.CountByUserTypeBetween(userID, txType, dayStart, dayEnd)
	if err != nil {
		return false, err
	}
	return count < int64(cap), nil
}

// RecentTransactions 回傳用戶最近的帳本記錄
func (s *WalletService) RecentTransactions(userID uint, limit int) ([]models.CoinTx, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	return s.coinTxRepo.FindRecentByUser(userID, limit)
}
