package service

import (
	"quizdraw/internal/models"
	"quizdraw/internal/repository"
)

// GalleryService 提供圖庫查詢：自己畫過的作品，以及同房間其他人的作品
type GalleryService struct {
	playerRepo  repository.PlayerRepository
	drawingRepo repository.DrawingRepository
}

func NewGalleryService(playerRepo repository.PlayerRepository, drawingRepo repository.DrawingRepository) *GalleryService {
	return &GalleryService{playerRepo: playerRepo, drawingRepo: drawingRepo}
}

// Gallery 是圖庫查詢的結果
type Gallery struct {
	MyDrawings      []models.Drawing `json:"my_drawings"`
	FriendsDrawings []models.Drawing `json:"friends_drawings"`
}

func (s *GalleryService) GetGallery(userID uint, limit int) (*Gallery, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}

	roomIDs, err := s.playerRepo.FindRoomIDsByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(roomIDs) == 0 {
		return &Gallery{MyDrawings: []models.Drawing{}, FriendsDrawings: []models.Drawing{}}, nil
	}

	mine, err := s.drawingRepo.FindByDrawerInRooms(userID, roomIDs, limit)
	if err != nil {
		return nil, err
	}

	friends, err := s.drawingRepo.FindByOthersInRooms(userID, roomIDs, limit)
	if err != nil {
		return nil, err
	}

	return &Gallery{MyDrawings: mine, FriendsDrawings: friends}, nil
}
