package repository

import (
	"quizdraw/internal/models"
	"quizdraw/internal/storage"
)

type PaletteRepository interface {
	FindAll() ([]models.Palette, error)
	FindByID(id uint) (*models.Palette, error)

	// CreateUnlock 插入解鎖記錄，(user, palette) 重複時回傳 ErrDuplicateKey
	CreateUnlock(unlock *models.UserPalette) error
	FindUnlock(userID, paletteID uint) (*models.UserPalette, error)
	FindUnlockedIDs(userID uint) ([]uint, error)
}

type paletteRepository struct {
	db *storage.PostgresDB
}

func NewPaletteRepository(db *storage.PostgresDB) PaletteRepository {
	return &paletteRepository{db: db}
}

func (r *paletteRepository) FindAll() ([]models.Palette, error) {
	var palettes []models.Palette
	err := r.db.Order("price asc").Find(&palettes).Error
	return palettes, translateError(err)
}

func (r *paletteRepository) FindByID(id uint) (*models.Palette, error) {
	var palette models.Palette
	if err := r.db.First(&palette, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &palette, nil
}

func (r *paletteRepository) CreateUnlock(unlock *models.UserPalette) error {
	return translateError(r.db.Create(unlock).Error)
}

func (r *paletteRepository) FindUnlock(userID, paletteID uint) (*models.UserPalette, error) {
	var unlock models.UserPalette
	err := r.db.Where("user_id = ? AND palette_id = ?", userID, paletteID).First(&unlock).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &unlock, nil
}

func (r *paletteRepository) FindUnlockedIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.UserPalette{}).
		Where("user_id = ?", userID).
		Pluck("palette_id", &ids).Error
	return ids, translateError(err)
}
