package public

import (
	"strconv"
	"strings"

	"github.com/decalforge/decalforge/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListGallery returns showcase items, optionally filtered by category.
func (h *Handler) ListGallery(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	category := strings.TrimSpace(c.Query("category"))

	items, total, err := h.GalleryService.List(category, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load gallery", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, items, pagination)
}

// ListGalleryCategories returns the distinct gallery categories.
func (h *Handler) ListGalleryCategories(c *gin.Context) {
	categories, err := h.GalleryService.Categories()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load gallery", err)
		return
	}
	response.Success(c, gin.H{"categories": categories})
}
