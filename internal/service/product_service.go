package service

import (
	"strings"

	"github.com/decalforge/decalforge/internal/models"
	"github.com/decalforge/decalforge/internal/repository"
)

// ProductService handles the decal catalog.
type ProductService struct {
	repo repository.ProductRepository
}

// NewProductService creates a product service.
func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// ProductInput is the create/update payload.
type ProductInput struct {
	Slug        string
	SKU         string
	Name        string
	Description string
	Price       models.Money
	ImageURL    string
	Stock       int
	IsActive    *bool
	SortOrder   int
}

// ListPublic returns active products for the storefront.
func (s *ProductService) ListPublic(keyword string, page, pageSize int) ([]models.Product, int64, error) {
	return s.repo.List(repository.ProductListFilter{
		ActiveOnly: true,
		Keyword:    keyword,
		Page:       page,
		PageSize:   pageSize,
	})
}

// GetPublicBySlug returns one active product.
func (s *ProductService) GetPublicBySlug(slug string) (*models.Product, error) {
	product, err := s.repo.GetBySlug(slug, true)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

// ListAdmin returns all products for the back office.
func (s *ProductService) ListAdmin(keyword string, page, pageSize int) ([]models.Product, int64, error) {
	return s.repo.List(repository.ProductListFilter{
		Keyword:  keyword,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetByID returns one product regardless of status.
func (s *ProductService) GetByID(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

// Create inserts a product after slug and SKU uniqueness checks.
func (s *ProductService) Create(input ProductInput) (*models.Product, error) {
	if err := s.checkUnique(input, nil); err != nil {
		return nil, err
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	product := models.Product{
		Slug:        strings.TrimSpace(input.Slug),
		SKU:         strings.TrimSpace(input.SKU),
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		PriceAmount: input.Price,
		ImageURL:    strings.TrimSpace(input.ImageURL),
		Stock:       input.Stock,
		IsActive:    isActive,
		SortOrder:   input.SortOrder,
	}
	if err := s.repo.Create(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Update saves product changes.
func (s *ProductService) Update(id uint, input ProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}

	if err := s.checkUnique(input, &id); err != nil {
		return nil, err
	}

	product.Slug = strings.TrimSpace(input.Slug)
	product.SKU = strings.TrimSpace(input.SKU)
	product.Name = strings.TrimSpace(input.Name)
	product.Description = input.Description
	product.PriceAmount = input.Price
	product.ImageURL = strings.TrimSpace(input.ImageURL)
	product.Stock = input.Stock
	product.SortOrder = input.SortOrder
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product.
func (s *ProductService) Delete(id uint) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrNotFound
	}
	return s.repo.Delete(id)
}

func (s *ProductService) checkUnique(input ProductInput, excludeID *uint) error {
	count, err := s.repo.CountBySlug(input.Slug, excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugExists
	}
	count, err = s.repo.CountBySKU(input.SKU, excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSKUExists
	}
	return nil
}
