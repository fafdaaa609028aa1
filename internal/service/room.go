package service

import (
	"errors"
	"math/rand"

	"quizdraw/internal/models"
	"quizdraw/internal/repository"
)

const roomCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RoomService 管理房間的建立與加入。
// 房間狀態只是展示用的輔助資訊，回合的排他性由 rounds 表的約束保證。
type RoomService struct {
	roomRepo   repository.RoomRepository
	playerRepo repository.PlayerRepository
	userRepo   repository.UserRepository
	wsManager  *WebSocketManager
	maxPlayers int
}

func NewRoomService(roomRepo repository.RoomRepository, playerRepo repository.PlayerRepository,
	userRepo repository.UserRepository, wsManager *WebSocketManager, maxPlayers int) *RoomService {
	return &RoomService{
		roomRepo:   roomRepo,
		playerRepo: playerRepo,
		userRepo:   userRepo,
		wsManager:  wsManager,
		maxPlayers: maxPlayers,
	}
}

// CreateRoom 建立新房間，創建者自動成為第一位玩家
func (s *RoomService) CreateRoom(userID uint) (*models.Room, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// 房間代碼撞到唯一索引就換一組重試，最多五次
	var room *models.Room
	for attempts := 0; attempts < 5; attempts++ {
		room = &models.Room{
			Code:      generateRoomCode(),
			Status:    models.RoomStatusWaiting,
			CreatedBy: userID,
		}
		err = s.roomRepo.Create(room)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicateKey) {
			return nil, err
		}
	}
	if err != nil {
		return nil, err
	}

	player := &models.Player{
		RoomID:   room.ID,
		UserID:   userID,
		Nickname: user.Nickname,
	}
	if err := s.playerRepo.Create(player); err != nil {
		return nil, err
	}

	return room, nil
}

// JoinRoom 以房間代碼加入房間。
// 同一用戶重複加入是冪等的，直接回傳現有的成員資料。
func (s *RoomService) JoinRoom(code string, userID uint) (*models.Room, *models.Player, error) {
	room, err := s.roomRepo.FindByCode(code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrRoomNotFound
		}
		return nil, nil, err
	}

	if room.Status == models.RoomStatusEnded {
		return nil, nil, ErrRoomEnded
	}

	if existing, err := s.playerRepo.FindByRoomAndUser(room.ID, userID); err == nil {
		return room, existing, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, err
	}

	count, err := s.playerRepo.CountByRoom(room.ID)
	if err != nil {
		return nil, nil, err
	}
	if count >= int64(s.maxPlayers) {
		return nil, nil, ErrRoomFull
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}

	player := &models.Player{
		RoomID:   room.ID,
		UserID:   userID,
		Nickname: user.Nickname,
	}
	if err := s.playerRepo.Create(player); err != nil {
		// 並發加入撞到 (room, user) 唯一索引，視為已加入
		if errors.Is(err, repository.ErrDuplicateKey) {
			existing, findErr := s.playerRepo.FindByRoomAndUser(room.ID, userID)
			if findErr != nil {
				return nil, nil, findErr
			}
			return room, existing, nil
		}
		return nil, nil, err
	}

	if s.wsManager != nil {
		s.wsManager.BroadcastSystemMessage(room.ID, user.Nickname+" 加入房間")
	}

	return room, player, nil
}

// GetRoom 取得房間資訊與目前人數
func (s *RoomService) GetRoom(roomID uint) (*models.Room, int64, error) {
	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, 0, ErrRoomNotFound
		}
		return nil, 0, err
	}

	count, err := s.playerRepo.CountByRoom(roomID)
	if err != nil {
		return nil, 0, err
	}
	return room, count, nil
}

// IsMember 檢查用戶是否為房間成員
func (s *RoomService) IsMember(roomID, userID uint) (bool, error) {
	_, err := s.playerRepo.FindByRoomAndUser(roomID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func generateRoomCode() string {
	code := make([]byte, 6)
	for i := range code {
		code[i] = roomCodeCharset[rand.Intn(len(roomCodeCharset))]
	}
	return string(code)
}
