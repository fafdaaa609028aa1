package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quizdraw/internal/service"
)

// RoundHandler 處理回合的開始與猜題提交
type RoundHandler struct {
	roundService *service.RoundService
}

// NewRoundHandler 創建一個新的 RoundHandler 實例
func NewRoundHandler(roundService *service.RoundService) *RoundHandler {
	return &RoundHandler{roundService: roundService}
}

// StartRoundInput 定義開始回合請求的結構
type StartRoundInput struct {
	Answer      string `json:"answer" binding:"required"`
	DrawingPath string `json:"drawing_path" binding:"required"`
	Width       int    `json:"width" binding:"required"`
	Height      int    `json:"height" binding:"required"`
}

// StartRound 處理開始新回合的請求，提交者即為本回合的畫圖者
func (h *RoundHandler) StartRound(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不存在的房間ID"})
		return
	}

	var input StartRoundInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.roundService.StartRound(uint(roomID), currentUserID(c),
		input.Answer, input.DrawingPath, input.Width, input.Height)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"round_id":     result.Round.ID,
		"room_id":      result.Round.RoomID,
		"status":       result.Round.Status,
		"started_at":   result.Round.StartedAt,
		"drawing_id":   result.Drawing.ID,
		"drawing_path": result.Drawing.StoragePath,
		"coins_earned": result.CoinsEarned,
	})
}

// SubmitGuessInput 定義猜題請求的結構
type SubmitGuessInput struct {
	Text string `json:"text" binding:"required"`
}

// SubmitGuess 處理一次猜題提交
func (h *RoundHandler) SubmitGuess(c *gin.Context) {
	roundID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不存在的回合ID"})
		return
	}

	var input SubmitGuessInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.roundService.SubmitGuess(uint(roundID), currentUserID(c), input.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"guess_id":     result.Guess.ID,
		"round_id":     result.Guess.RoundID,
		"is_correct":   result.IsCorrect,
		"is_winner":    result.IsWinner,
		"coins_earned": result.CoinsEarned,
		"round_status": result.RoundStatus,
	})
}
