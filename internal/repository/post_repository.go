package repository

import (
	"errors"
	"strings"

	"github.com/decalforge/decalforge/internal/models"

	"gorm.io/gorm"
)

// PostRepository is the blog data access interface.
type PostRepository interface {
	List(filter PostListFilter) ([]models.Post, int64, error)
	GetBySlug(slug string, onlyPublished bool) (*models.Post, error)
	GetByID(id uint) (*models.Post, error)
	Create(post *models.Post) error
	Update(post *models.Post) error
	Delete(id uint) error
	CountBySlug(slug string, excludeID *uint) (int64, error)
}

// GormPostRepository is the GORM implementation.
type GormPostRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a blog repository.
func NewPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// List returns a filtered, paginated post page.
func (r *GormPostRepository) List(filter PostListFilter) ([]models.Post, int64, error) {
	query := r.db.Model(&models.Post{})
	if filter.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	posts := make([]models.Post, 0)
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("published_at DESC, id DESC").Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// GetBySlug looks up a post by slug.
func (r *GormPostRepository) GetBySlug(slug string, onlyPublished bool) (*models.Post, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}
	query := r.db.Where("slug = ?", slug)
	if onlyPublished {
		query = query.Where("is_published = ?", true)
	}
	var post models.Post
	if err := query.First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetByID looks up a post by id.
func (r *GormPostRepository) GetByID(id uint) (*models.Post, error) {
	if id == 0 {
		return nil, nil
	}
	var post models.Post
	if err := r.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create inserts a post.
func (r *GormPostRepository) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

// Update saves a post.
func (r *GormPostRepository) Update(post *models.Post) error {
	return r.db.Save(post).Error
}

// Delete soft-deletes a post.
func (r *GormPostRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.Post{}, id).Error
}

// CountBySlug counts posts holding a slug.
func (r *GormPostRepository) CountBySlug(slug string, excludeID *uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Post{}).Where("slug = ?", strings.TrimSpace(slug))
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
