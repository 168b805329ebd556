package admin

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/decalforge/decalforge/internal/http/response"
	"github.com/decalforge/decalforge/internal/models"
	"github.com/decalforge/decalforge/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// DiscountCodeRequest is the create/update discount code payload.
type DiscountCodeRequest struct {
	Code       string `json:"code" binding:"required"`
	Type       string `json:"type" binding:"required"`
	Value      string `json:"value" binding:"required"`
	UsageLimit int    `json:"usage_limit"`
	ExpiresAt  string `json:"expires_at"`
	IsActive   *bool  `json:"is_active"`
}

func (r DiscountCodeRequest) toInput() (service.DiscountCodeInput, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(r.Value))
	if err != nil || value.IsNegative() {
		return service.DiscountCodeInput{}, errors.New("invalid discount value")
	}

	var expiresAt *time.Time
	if raw := strings.TrimSpace(r.ExpiresAt); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return service.DiscountCodeInput{}, errors.New("invalid expires_at, expected RFC3339")
		}
		expiresAt = &parsed
	}

	return service.DiscountCodeInput{
		Code:       r.Code,
		Type:       r.Type,
		Value:      models.NewMoneyFromDecimal(value.Round(2)),
		UsageLimit: r.UsageLimit,
		ExpiresAt:  expiresAt,
		IsActive:   r.IsActive,
	}, nil
}

// ListDiscountCodes returns discount codes for the back office.
func (h *Handler) ListDiscountCodes(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	codes, total, err := h.DiscountService.ListAdmin(page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load discount codes", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, codes, pagination)
}

// CreateDiscountCode inserts a code.
func (h *Handler) CreateDiscountCode(c *gin.Context) {
	var req DiscountCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, err.Error(), nil)
		return
	}

	code, err := h.DiscountService.Create(input)
	if err != nil {
		respondDiscountWriteError(c, err)
		return
	}
	response.Success(c, code)
}

// UpdateDiscountCode saves code changes.
func (h *Handler) UpdateDiscountCode(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req DiscountCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, err.Error(), nil)
		return
	}

	code, err := h.DiscountService.Update(id, input)
	if err != nil {
		respondDiscountWriteError(c, err)
		return
	}
	response.Success(c, code)
}

// DeleteDiscountCode removes a code.
func (h *Handler) DeleteDiscountCode(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.DiscountService.Delete(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "discount code not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to delete discount code", err)
		return
	}
	response.Success(c, nil)
}

func respondDiscountWriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, "discount code not found", nil)
	case errors.Is(err, service.ErrCodeExists):
		respondError(c, response.CodeBadRequest, "code already in use", nil)
	case errors.Is(err, service.ErrDiscountCodeInvalid):
		respondError(c, response.CodeBadRequest, "invalid code or discount type", nil)
	default:
		respondError(c, response.CodeInternal, "failed to save discount code", err)
	}
}
