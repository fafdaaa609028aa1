package repository

import (
	"quizdraw/internal/models"
	"quizdraw/internal/storage"
)

type AdReceiptRepository interface {
	// Create 插入收據，idem_key 重複時回傳 ErrDuplicateKey
	Create(receipt *models.AdReceipt) error
	FindByIdemKey(key string) (*models.AdReceipt, error)
}

type adReceiptRepository struct {
	db *storage.PostgresDB
}

func NewAdReceiptRepository(db *storage.PostgresDB) AdReceiptRepository {
	return &adReceiptRepository{db: db}
}

func (r *adReceiptRepository) Create(receipt *models.AdReceipt) error {
	return translateError(r.db.Create(receipt).Error)
}

func (r *adReceiptRepository) FindByIdemKey(key string) (*models.AdReceipt, error) {
	var receipt models.AdReceipt
	if err := r.db.Where("idem_key = ?", key).First(&receipt).Error; err != nil {
		return nil, translateError(err)
	}
	return &receipt, nil
}
