package repository

import (
	"quizdraw/internal/models"
	"quizdraw/internal/storage"
)

type RoomRepository interface {
	Create(room *models.Room) error
	FindByID(id uint) (*models.Room, error)
	FindByCode(code string) (*models.Room, error)
	UpdateStatus(roomID uint, status models.RoomStatus) error
}

type roomRepository struct {
	db *storage.PostgresDB
}

func NewRoomRepository(db *storage.PostgresDB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(room *models.Room) error {
	return translateError(r.db.Create(room).Error)
}

func (r *roomRepository) FindByID(id uint) (*models.Room, error) {
	var room models.Room
	if err := r.db.First(&room, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &room, nil
}

func (r *roomRepository) FindByCode(code string) (*models.Room, error) {
	var room models.Room
	if err := r.db.Where("code = ?", code).First(&room).Error; err != nil {
		return nil, translateError(err)
	}
	return &room, nil
}

func (r *roomRepository) UpdateStatus(roomID uint, status models.RoomStatus) error {
	return translateError(r.db.Model(&models.Room{}).
		Where("id = ?", roomID).
		Update("status", status).Error)
}

// PlayerRepository 管理房間成員資料
type PlayerRepository interface {
	Create(player *models.Player) error
	FindByRoomAndUser(roomID, userID uint) (*models.Player, error)
	CountByRoom(roomID uint) (int64, error)
	FindRoomIDsByUser(userID uint) ([]uint, error)
}

type playerRepository struct {
	db *storage.PostgresDB
}

func NewPlayerRepository(db *storage.PostgresDB) PlayerRepository {
	return &playerRepository{db: db}
}

func (r *playerRepository) Create(player *models.Player) error {
	return translateError(r.db.Create(player).Error)
}

func (r *playerRepository) FindByRoomAndUser(roomID, userID uint) (*models.Player, error) {
	var player models.Player
	err := r.db.Where("room_id = ? AND user_id = ?", roomID, userID).First(&player).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &player, nil
}

func (r *playerRepository) CountByRoom(roomID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Player{}).Where("room_id = ?", roomID).Count(&count).Error
	return count, translateError(err)
}

func (r *playerRepository) FindRoomIDsByUser(userID uint) ([]uint, error) {
	var roomIDs []uint
	err := r.db.Model(&models.Player{}).
		Where("user_id = ?", userID).
		Pluck("room_id", &roomIDs).Error
	return roomIDs, translateError(err)
}
