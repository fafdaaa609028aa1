package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quizdraw/internal/service"
)

// RoomHandler 處理與遊戲房間相關的請求
type RoomHandler struct {
	roomService *service.RoomService
}

// NewRoomHandler 創建一個新的 RoomHandler 實例
func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// CreateRoom 處理創建新房間的請求
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	room, err := h.roomService.CreateRoom(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"room_id":   room.ID,
		"room_code": room.Code,
		"status":    room.Status,
	})
}

// JoinRoomInput 定義加入房間請求的結構
type JoinRoomInput struct {
	Code string `json:"code" binding:"required"`
}

// JoinRoom 處理以房間代碼加入房間的請求
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	var input JoinRoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, player, err := h.roomService.JoinRoom(input.Code, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"room_id":   room.ID,
		"room_code": room.Code,
		"status":    room.Status,
		"nickname":  player.Nickname,
	})
}

// GetRoom 處理獲取房間資訊的請求
func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不存在的房間ID"})
		return
	}

	room, playerCount, err := h.roomService.GetRoom(uint(roomID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"room_id":      room.ID,
		"room_code":    room.Code,
		"status":       room.Status,
		"player_count": playerCount,
		"created_at":   room.CreatedAt,
	})
}
