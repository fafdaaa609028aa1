package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"quizdraw/internal/service"
)

// AdRewardHandler 處理廣告網路的 SSV 回呼
type AdRewardHandler struct {
	adRewardService *service.AdRewardService
}

// NewAdRewardHandler 創建一個新的 AdRewardHandler 實例
func NewAdRewardHandler(adRewardService *service.AdRewardService) *AdRewardHandler {
	return &AdRewardHandler{adRewardService: adRewardService}
}

// VerifyAdRewardInput 定義廣告獎勵回呼的請求結構
type VerifyAdRewardInput struct {
	UserID        uint   `json:"user_id" binding:"required"`
	AdNetwork     string `json:"ad_network" binding:"required"`
	AdUnit        string `json:"ad_unit" binding:"required"`
	RewardAmount  int    `json:"reward_amount" binding:"required"`
	RewardItem    string `json:"reward_item" binding:"required"`
	Timestamp     int64  `json:"timestamp" binding:"required"`
	TransactionID string `json:"transaction_id" binding:"required"`
	Signature     string `json:"signature" binding:"required"`
	KeyID         string `json:"key_id" binding:"required"`
	CustomData    string `json:"custom_data"`
}

// VerifyAdReward 驗證回呼簽名並發放廣告獎勵。
// 廣告網路可能重送同一筆通知，重送會得到與第一次相同的回應。
func (h *AdRewardHandler) VerifyAdReward(c *gin.Context) {
	var input VerifyAdRewardInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 原始內容留存進收據
	rawPayload, _ := json.Marshal(input)

	result, err := h.adRewardService.VerifyAndCredit(service.VerifyAdRewardInput{
		UserID:        input.UserID,
		AdNetwork:     input.AdNetwork,
		AdUnit:        input.AdUnit,
		RewardAmount:  input.RewardAmount,
		RewardItem:    input.RewardItem,
		Timestamp:     input.Timestamp,
		TransactionID: input.TransactionID,
		Signature:     input.Signature,
		KeyID:         input.KeyID,
		CustomData:    input.CustomData,
		RawPayload:    string(rawPayload),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"verified":      result.Verified,
		"coins_awarded": result.CoinsAwarded,
		"total_balance": result.TotalBalance,
		"receipt_id":    result.ReceiptID,
	})
}
