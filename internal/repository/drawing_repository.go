package repository

import (
	"quizdraw/internal/models"
	"quizdraw/internal/storage"
)

type DrawingRepository interface {
	Create(drawing *models.Drawing) error
	FindByRound(roundID uint) (*models.Drawing, error)

	// 圖庫查詢：限定在指定房間內，依畫圖者區分自己與其他人的作品
	FindByDrawerInRooms(drawerUserID uint, roomIDs []uint, limit int) ([]models.Drawing, error)
	FindByOthersInRooms(excludeUserID uint, roomIDs []uint, limit int) ([]models.Drawing, error)
}

type drawingRepository struct {
	db *storage.PostgresDB
}

func NewDrawingRepository(db *storage.PostgresDB) DrawingRepository {
	return &drawingRepository{db: db}
}

func (r *drawingRepository) Create(drawing *models.Drawing) error {
	return translateError(r.db.Create(drawing).Error)
}

func (r *drawingRepository) FindByRound(roundID uint) (*models.Drawing, error) {
	var drawing models.Drawing
	if err := r.db.Where("round_id = ?", roundID).First(&drawing).Error; err != nil {
		return nil, translateError(err)
	}
	return &drawing, nil
}

func (r *drawingRepository) FindByDrawerInRooms(drawerUserID uint, roomIDs []uint, limit int) ([]models.Drawing, error) {
	var drawings []models.Drawing
	err := r.db.
		Joins("JOIN rounds ON rounds.id = drawings.round_id").
		Where("rounds.drawer_user_id = ? AND rounds.room_id IN ?", drawerUserID, roomIDs).
		Order("drawings.created_at DESC").
		Limit(limit).
		Find(&drawings).Error
	return drawings, translateError(err)
}

func (r *drawingRepository) FindByOthersInRooms(excludeUserID uint, roomIDs []uint, limit int) ([]models.Drawing, error) {
	var drawings []models.Drawing
	err := r.db.
		Joins("JOIN rounds ON rounds.id = drawings.round_id").
		Where("rounds.drawer_user_id <> ? AND rounds.room_id IN ?", excludeUserID, roomIDs).
		Order("drawings.created_at DESC").
		Limit(limit).
		Find(&drawings).Error
	return drawings, translateError(err)
}
