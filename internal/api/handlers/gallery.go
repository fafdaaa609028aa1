package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quizdraw/internal/service"
)

// GalleryHandler 處理圖庫查詢
type GalleryHandler struct {
	galleryService *service.GalleryService
}

// NewGalleryHandler 創建一個新的 GalleryHandler 實例
func NewGalleryHandler(galleryService *service.GalleryService) *GalleryHandler {
	return &GalleryHandler{galleryService: galleryService}
}

// GetGallery 回傳自己與同房間其他人的畫作
func (h *GalleryHandler) GetGallery(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))

	gallery, err := h.galleryService.GetGallery(currentUserID(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gallery)
}
