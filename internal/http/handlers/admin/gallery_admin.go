package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/decalforge/decalforge/internal/http/response"
	"github.com/decalforge/decalforge/internal/service"

	"github.com/gin-gonic/gin"
)

// GalleryItemRequest is the create/update gallery payload.
type GalleryItemRequest struct {
	Title     string `json:"title" binding:"required"`
	ImageURL  string `json:"image_url" binding:"required"`
	Category  string `json:"category"`
	SortOrder int    `json:"sort_order"`
}

func (r GalleryItemRequest) toInput() service.GalleryInput {
	return service.GalleryInput{
		Title:     r.Title,
		ImageURL:  r.ImageURL,
		Category:  r.Category,
		SortOrder: r.SortOrder,
	}
}

// ListAdminGallery returns gallery items for the back office.
func (h *Handler) ListAdminGallery(c *gin.Context) {
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

// CreateGalleryItem inserts a showcase item.
func (h *Handler) CreateGalleryItem(c *gin.Context) {
	var req GalleryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	item, err := h.GalleryService.Create(req.toInput())
	if err != nil {
		respondError(c, response.CodeInternal, "failed to save gallery item", err)
		return
	}
	response.Success(c, item)
}

// UpdateGalleryItem saves gallery item changes.
func (h *Handler) UpdateGalleryItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req GalleryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	item, err := h.GalleryService.Update(id, req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "gallery item not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to save gallery item", err)
		return
	}
	response.Success(c, item)
}

// DeleteGalleryItem removes a gallery item.
func (h *Handler) DeleteGalleryItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.GalleryService.Delete(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "gallery item not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to delete gallery item", err)
		return
	}
	response.Success(c, nil)
}
