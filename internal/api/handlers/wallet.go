package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quizdraw/internal/service"
)

// WalletHandler 處理金幣餘額與交易記錄的查詢
type WalletHandler struct {
	walletService *service.WalletService
}

// NewWalletHandler 創建一個新的 WalletHandler 實例
func NewWalletHandler(walletService *service.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// GetBalance 查詢當前用戶的金幣餘額
func (h *WalletHandler) GetBalance(c *gin.Context) {
	balance, err := h.walletService.Balance(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// GetTransactions 查詢當前用戶最近的帳本記錄
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))

	txs, err := h.walletService.RecentTransactions(currentUserID(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}
