package service

import (
	"strings"

	"github.com/decalforge/decalforge/internal/models"
	"github.com/decalforge/decalforge/internal/repository"
)

// GalleryService handles the showcase gallery.
type GalleryService struct {
	repo repository.GalleryRepository
}

// NewGalleryService creates a gallery service.
func NewGalleryService(repo repository.GalleryRepository) *GalleryService {
	return &GalleryService{repo: repo}
}

// GalleryInput is the create/update payload.
type GalleryInput struct {
	Title     string
	ImageURL  string
	Category  string
	SortOrder int
}

// List returns gallery items, optionally filtered by category.
func (s *GalleryService) List(category string, page, pageSize int) ([]models.GalleryItem, int64, error) {
	return s.repo.List(repository.GalleryListFilter{
		Category: category,
		Page:     page,
		PageSize: pageSize,
	})
}

// Categories returns the distinct category names.
func (s *GalleryService) Categories() ([]string, error) {
	return s.repo.ListCategories()
}

// GetByID returns one gallery item.
func (s *GalleryService) GetByID(id uint) (*models.GalleryItem, error) {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	return item, nil
}

// Create inserts a gallery item.
func (s *GalleryService) Create(input GalleryInput) (*models.GalleryItem, error) {
	item := models.GalleryItem{
		Title:     strings.TrimSpace(input.Title),
		ImageURL:  strings.TrimSpace(input.ImageURL),
		Category:  strings.TrimSpace(input.Category),
		SortOrder: input.SortOrder,
	}
	if err := s.repo.Create(&item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update saves gallery item changes.
func (s *GalleryService) Update(id uint, input GalleryInput) (*models.GalleryItem, error) {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}

	item.Title = strings.TrimSpace(input.Title)
	item.ImageURL = strings.TrimSpace(input.ImageURL)
	item.Category = strings.TrimSpace(input.Category)
	item.SortOrder = input.SortOrder

	if err := s.repo.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes a gallery item.
func (s *GalleryService) Delete(id uint) error {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrNotFound
	}
	return s.repo.Delete(id)
}
