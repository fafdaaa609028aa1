package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quizdraw/internal/service"
)

// PaletteHandler 處理調色盤商店相關的請求
type PaletteHandler struct {
	paletteService *service.PaletteService
}

// NewPaletteHandler 創建一個新的 PaletteHandler 實例
func NewPaletteHandler(paletteService *service.PaletteService) *PaletteHandler {
	return &PaletteHandler{paletteService: paletteService}
}

// ListPalettes 列出所有調色盤與解鎖狀態
func (h *PaletteHandler) ListPalettes(c *gin.Context) {
	palettes, err := h.paletteService.List(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"palettes": palettes})
}

// UnlockPalette 以金幣解鎖調色盤
func (h *PaletteHandler) UnlockPalette(c *gin.Context) {
	paletteID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不存在的調色盤ID"})
		return
	}

	result, err := h.paletteService.Unlock(currentUserID(c), uint(paletteID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"palette_id":        result.Palette.ID,
		"palette_name":      result.Palette.Name,
		"price_paid":        result.PricePaid,
		"remaining_balance": result.RemainingBalance,
		"already_unlocked":  result.AlreadyUnlocked,
	})
}
