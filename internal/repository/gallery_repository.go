package repository

import (
	"errors"
	"strings"

	"github.com/decalforge/decalforge/internal/models"

	"gorm.io/gorm"
)

// GalleryRepository is the gallery data access interface.
type GalleryRepository interface {
	List(filter GalleryListFilter) ([]models.GalleryItem, int64, error)
	GetByID(id uint) (*models.GalleryItem, error)
	ListCategories() ([]string, error)
	Create(item *models.GalleryItem) error
	Update(item *models.GalleryItem) error
	Delete(id uint) error
}

// GormGalleryRepository is the GORM implementation.
type GormGalleryRepository struct {
	db *gorm.DB
}

// NewGalleryRepository creates a gallery repository.
func NewGalleryRepository(db *gorm.DB) *GormGalleryRepository {
	return &GormGalleryRepository{db: db}
}

// List returns a filtered, paginated gallery page.
func (r *GormGalleryRepository) List(filter GalleryListFilter) ([]models.GalleryItem, int64, error) {
	query := r.db.Model(&models.GalleryItem{})
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]models.GalleryItem, 0)
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("sort_order DESC, id DESC").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetByID looks up a gallery item.
func (r *GormGalleryRepository) GetByID(id uint) (*models.GalleryItem, error) {
	if id == 0 {
		return nil, nil
	}
	var item models.GalleryItem
	if err := r.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// ListCategories returns distinct gallery categories.
func (r *GormGalleryRepository) ListCategories() ([]string, error) {
	categories := make([]string, 0)
	err := r.db.Model(&models.GalleryItem{}).
		Where("category != ''").
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// Create inserts a gallery item.
func (r *GormGalleryRepository) Create(item *models.GalleryItem) error {
	return r.db.Create(item).Error
}

// Update saves a gallery item.
func (r *GormGalleryRepository) Update(item *models.GalleryItem) error {
	return r.db.Save(item).Error
}

// Delete soft-deletes a gallery item.
func (r *GormGalleryRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.GalleryItem{}, id).Error
}
