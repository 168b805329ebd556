package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/decalforge/decalforge/internal/http/response"
	"github.com/decalforge/decalforge/internal/repository"
	"github.com/decalforge/decalforge/internal/service"

	"github.com/gin-gonic/gin"
)

// AffiliateUserRequest is the create/update affiliate payload.
type AffiliateUserRequest struct {
	Code   string `json:"code"`
	Name   string `json:"name" binding:"required"`
	Email  string `json:"email" binding:"required"`
	Status string `json:"status"`
}

// ListAffiliates returns registered affiliates.
func (h *Handler) ListAffiliates(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	users, total, err := h.AffiliateService.ListUsers(page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load affiliates", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, users, pagination)
}

// GetAffiliate returns one affiliate.
func (h *Handler) GetAffiliate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.AffiliateService.GetUserByID(id)
	if err != nil {
		if errors.Is(err, service.ErrAffiliateNotFound) {
			respondError(c, response.CodeNotFound, "affiliate not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to load affiliate", err)
		return
	}
	response.Success(c, user)
}

// CreateAffiliate registers an affiliate. The referral code is
// generated when left empty.
func (h *Handler) CreateAffiliate(c *gin.Context) {
	var req AffiliateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	user, err := h.AffiliateService.CreateUser(service.AffiliateUserInput{
		Code:   req.Code,
		Name:   req.Name,
		Email:  req.Email,
		Status: req.Status,
	})
	if err != nil {
		if errors.Is(err, service.ErrCodeExists) {
			respondError(c, response.CodeBadRequest, "referral code already in use", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to save affiliate", err)
		return
	}
	response.Success(c, user)
}

// UpdateAffiliate saves affiliate changes.
func (h *Handler) UpdateAffiliate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AffiliateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	user, err := h.AffiliateService.UpdateUser(id, service.AffiliateUserInput{
		Code:   req.Code,
		Name:   req.Name,
		Email:  req.Email,
		Status: req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAffiliateNotFound):
			respondError(c, response.CodeNotFound, "affiliate not found", nil)
		case errors.Is(err, service.ErrCodeExists):
			respondError(c, response.CodeBadRequest, "referral code already in use", nil)
		default:
			respondError(c, response.CodeInternal, "failed to save affiliate", err)
		}
		return
	}
	response.Success(c, user)
}

// ListCommissions returns the commission ledger, filterable by
// affiliate and status.
func (h *Handler) ListCommissions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	var affiliateID uint
	if raw := strings.TrimSpace(c.Query("affiliate_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			affiliateID = uint(parsed)
		}
	}

	rows, total, err := h.AffiliateService.ListCommissions(repository.CommissionListFilter{
		AffiliateUserID: affiliateID,
		Status:          strings.TrimSpace(c.Query("status")),
		Page:            page,
		PageSize:        pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load commissions", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, rows, pagination)
}
