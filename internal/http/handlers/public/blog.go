package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/decalforge/decalforge/internal/http/response"
	"github.com/decalforge/decalforge/internal/service"

	"github.com/gin-gonic/gin"
)

// ListPosts returns published blog posts.
func (h *Handler) ListPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	posts, total, err := h.PostService.ListPublic(page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load posts", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, posts, pagination)
}

// GetPost returns one published post by slug.
func (h *Handler) GetPost(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		respondError(c, response.CodeBadRequest, "slug is required", nil)
		return
	}

	post, err := h.PostService.GetPublicBySlug(slug)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "post not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to load post", err)
		return
	}

	response.Success(c, post)
}
