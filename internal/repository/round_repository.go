package repository

import (
	"time"

	"quizdraw/internal/models"
	"quizdraw/internal/storage"
)

type RoundRepository interface {
	Create(round *models.Round) error
	FindByID(id uint) (*models.Round, error)
	FindActiveByRoom(roomID uint) (*models.Round, error)
	CountByRoom(roomID uint) (int64, error)

	// AssignWinner 是「第一個猜對的人獲勝」的唯一機制：
	// 只有在回合仍是 playing 且尚未有贏家時，條件更新才會生效。
	// 回傳 true 表示這次呼叫搶到了贏家位置。
	AssignWinner(roundID, winnerUserID uint, endedAt time.Time) (bool, error)
}

type roundRepository struct {
	db *storage.PostgresDB
}

func NewRoundRepository(db *storage.PostgresDB) RoundRepository {
	return &roundRepository{db: db}
}

func (r *roundRepository) Create(round *models.Round) error {
	return translateError(r.db.Create(round).Error)
}

func (r *roundRepository) FindByID(id uint) (*models.Round, error) {
	var round models.Round
	if err := r.db.First(&round, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &round, nil
}

func (r *roundRepository) FindActiveByRoom(roomID uint) (*models.Round, error) {
	var round models.Round
	err := r.db.Where("room_id = ? AND status = ?", roomID, models.RoundStatusPlaying).
		First(&round).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &round, nil
}

func (r *roundRepository) CountByRoom(roomID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Round{}).Where("room_id = ?", roomID).Count(&count).Error
	return count, translateError(err)
}

func (r *roundRepository) AssignWinner(roundID, winnerUserID uint, endedAt time.Time) (bool, error) {
	// 多個正確答案可能同時到達這裡，資料庫的原子條件更新
	// 保證只有一個 UPDATE 影響到該列，其餘都是 RowsAffected == 0
	result := r.db.Model(&models.Round{}).
		Where("id = ? AND status = ? AND winner_user_id IS NULL",
			roundID, models.RoundStatusPlaying).
		Updates(map[string]interface{}{
			"status":         models.RoundStatusEnded,
			"winner_user_id": winnerUserID,
			"ended_at":       endedAt,
		})
	if result.Error != nil {
		return false, translateError(result.Error)
	}
	return result.RowsAffected == 1, nil
}
