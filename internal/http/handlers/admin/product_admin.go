package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/decalforge/decalforge/internal/http/response"
	"github.com/decalforge/decalforge/internal/models"
	"github.com/decalforge/decalforge/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductRequest is the create/update product payload.
type ProductRequest struct {
	Slug        string `json:"slug" binding:"required"`
	SKU         string `json:"sku" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       string `json:"price" binding:"required"`
	ImageURL    string `json:"image_url"`
	Stock       int    `json:"stock"`
	IsActive    *bool  `json:"is_active"`
	SortOrder   int    `json:"sort_order"`
}

func (r ProductRequest) toInput() (service.ProductInput, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(r.Price))
	if err != nil || price.IsNegative() {
		return service.ProductInput{}, errors.New("invalid price")
	}
	return service.ProductInput{
		Slug:        r.Slug,
		SKU:         r.SKU,
		Name:        r.Name,
		Description: r.Description,
		Price:       models.NewMoneyFromDecimal(price.Round(2)),
		ImageURL:    r.ImageURL,
		Stock:       r.Stock,
		IsActive:    r.IsActive,
		SortOrder:   r.SortOrder,
	}, nil
}

// ListAdminProducts returns the full catalog page.
func (h *Handler) ListAdminProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	keyword := strings.TrimSpace(c.Query("search"))

	products, total, err := h.ProductService.ListAdmin(keyword, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load products", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, products, pagination)
}

// GetAdminProduct returns one product.
func (h *Handler) GetAdminProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.ProductService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to load product", err)
		return
	}
	response.Success(c, product)
}

// CreateProduct inserts a catalog product.
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, err.Error(), nil)
		return
	}

	product, err := h.ProductService.Create(input)
	if err != nil {
		respondProductWriteError(c, err)
		return
	}
	response.Success(c, product)
}

// UpdateProduct saves product changes.
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, err.Error(), nil)
		return
	}

	product, err := h.ProductService.Update(id, input)
	if err != nil {
		respondProductWriteError(c, err)
		return
	}
	response.Success(c, product)
}

// DeleteProduct removes a product.
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.ProductService.Delete(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to delete product", err)
		return
	}
	response.Success(c, nil)
}

func respondProductWriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, "product not found", nil)
	case errors.Is(err, service.ErrSlugExists):
		respondError(c, response.CodeBadRequest, "slug already in use", nil)
	case errors.Is(err, service.ErrSKUExists):
		respondError(c, response.CodeBadRequest, "sku already in use", nil)
	default:
		respondError(c, response.CodeInternal, "failed to save product", err)
	}
}
