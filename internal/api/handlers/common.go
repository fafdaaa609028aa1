package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"quizdraw/internal/service"
)

// respondError 把服務層錯誤轉成 HTTP 回應。
// 帶分類的 ServiceError 依其狀態碼回應，其餘一律視為伺服器內部錯誤。
func respondError(c *gin.Context, err error) {
	var svcErr *service.ServiceError
	if errors.As(err, &svcErr) {
		c.JSON(svcErr.Status, gin.H{"code": svcErr.Code, "error": svcErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "伺服器內部錯誤"})
}

// currentUserID 從中間件設置的上下文取出用戶 ID
func currentUserID(c *gin.Context) uint {
	userID, _ := c.Get("userID")
	return userID.(uint)
}
