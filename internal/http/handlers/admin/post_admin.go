package admin

import (
	"errors"
	"strconv"

	"github.com/decalforge/decalforge/internal/http/response"
	"github.com/decalforge/decalforge/internal/service"

	"github.com/gin-gonic/gin"
)

// PostRequest is the create/update post payload.
type PostRequest struct {
	Slug        string `json:"slug" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Summary     string `json:"summary"`
	Content     string `json:"content"`
	Thumbnail   string `json:"thumbnail"`
	IsPublished *bool  `json:"is_published"`
}

func (r PostRequest) toInput() service.PostInput {
	return service.PostInput{
		Slug:        r.Slug,
		Title:       r.Title,
		Summary:     r.Summary,
		Content:     r.Content,
		Thumbnail:   r.Thumbnail,
		IsPublished: r.IsPublished,
	}
}

// ListAdminPosts returns all posts, drafts included.
func (h *Handler) ListAdminPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	posts, total, err := h.PostService.ListAdmin(page, pageSize)
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

// GetAdminPost returns one post.
func (h *Handler) GetAdminPost(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	post, err := h.PostService.GetByID(id)
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

// CreatePost inserts a blog post.
func (h *Handler) CreatePost(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	post, err := h.PostService.Create(req.toInput())
	if err != nil {
		respondPostWriteError(c, err)
		return
	}
	response.Success(c, post)
}

// UpdatePost saves post changes.
func (h *Handler) UpdatePost(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	post, err := h.PostService.Update(id, req.toInput())
	if err != nil {
		respondPostWriteError(c, err)
		return
	}
	response.Success(c, post)
}

// DeletePost removes a post.
func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.PostService.Delete(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "post not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to delete post", err)
		return
	}
	response.Success(c, nil)
}

func respondPostWriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, "post not found", nil)
	case errors.Is(err, service.ErrSlugExists):
		respondError(c, response.CodeBadRequest, "slug already in use", nil)
	default:
		respondError(c, response.CodeInternal, "failed to save post", err)
	}
}
