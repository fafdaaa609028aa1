package repository

import (
	"time"

	"quizdraw/internal/models"
	"quizdraw/internal/storage"
)

// CoinTxRepository 是帳本的儲存層。
// 帳本只追加：這裡沒有 Update 也沒有 Delete。
type CoinTxRepository interface {
	// Create 插入一筆記錄，idem_key 撞到唯一索引時回傳 ErrDuplicateKey
	Create(tx *models.CoinTx) error
	FindByIdemKey(key string) (*models.CoinTx, error)
	SumAmountByUser(userID uint) (int64, error)
	CountByUserTypeBetween(userID uint, txType models.CoinTxType, from, to time.Time) (int64, error)
	FindRecentByUser(userID uint, limit int) ([]models.CoinTx, error)
}

type coinTxRepository struct {
	db *storage.PostgresDB
}

func NewCoinTxRepository(db *storage.PostgresDB) CoinTxRepository {
	return &coinTxRepository{db: db}
}

func (r *coinTxRepository) Create(tx *models.CoinTx) error {
	return translateError(r.db.Create(tx).Error)
}

func (r *coinTxRepository) FindByIdemKey(key string) (*models.CoinTx, error) {
	var tx models.CoinTx
	if err := r.db.Where("idem_key = ?", key).First(&tx).Error; err != nil {
		return nil, translateError(err)
	}
	return &tx, nil
}

func (r *coinTxRepository) SumAmountByUser(userID uint) (int64, error) {
	// COALESCE 讓沒有任何記錄的用戶得到 0 而不是 NULL
	var sum int64
	err := r.db.Model(&models.CoinTx{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, translateError(err)
}

func (r *coinTxRepository) CountByUserTypeBetween(userID uint, txType models.CoinTxType, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.CoinTx{}).
		Where("user_id = ? AND type = ? AND created_at >= ? AND created_at < ?",
			userID, txType, from, to).
		Count(&count).Error
	return count, translateError(err)
}

func (r *coinTxRepository) FindRecentByUser(userID uint, limit int) ([]models.CoinTx, error) {
	var txs []models.CoinTx
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&txs).Error
	return txs, translateError(err)
}
