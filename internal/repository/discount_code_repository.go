package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/decalforge/decalforge/internal/models"

	"gorm.io/gorm"
)

// DiscountCodeRepository is the discount code data access interface.
type DiscountCodeRepository interface {
	List(filter DiscountCodeListFilter) ([]models.DiscountCode, int64, error)
	GetByCode(code string) (*models.DiscountCode, error)
	GetByID(id uint) (*models.DiscountCode, error)
	Create(code *models.DiscountCode) error
	Update(code *models.DiscountCode) error
	Delete(id uint) error
	IncrementUsage(id uint) (int64, error)
	WithTx(tx *gorm.DB) DiscountCodeRepository
}

// GormDiscountCodeRepository is the GORM implementation.
type GormDiscountCodeRepository struct {
	db *gorm.DB
}

// NewDiscountCodeRepository creates a discount code repository.
func NewDiscountCodeRepository(db *gorm.DB) *GormDiscountCodeRepository {
	return &GormDiscountCodeRepository{db: db}
}

// WithTx returns a copy bound to the given transaction.
func (r *GormDiscountCodeRepository) WithTx(tx *gorm.DB) DiscountCodeRepository {
	if tx == nil {
		return r
	}
	return &GormDiscountCodeRepository{db: tx}
}

// List returns a filtered, paginated code page.
func (r *GormDiscountCodeRepository) List(filter DiscountCodeListFilter) ([]models.DiscountCode, int64, error) {
	query := r.db.Model(&models.DiscountCode{})
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	codes := make([]models.DiscountCode, 0)
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("id DESC").Find(&codes).Error; err != nil {
		return nil, 0, err
	}
	return codes, total, nil
}

// GetByCode looks up a code, case-insensitively.
func (r *GormDiscountCodeRepository) GetByCode(code string) (*models.DiscountCode, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, nil
	}
	var row models.DiscountCode
	if err := r.db.Where("UPPER(code) = ?", normalized).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// GetByID looks up a code by id.
func (r *GormDiscountCodeRepository) GetByID(id uint) (*models.DiscountCode, error) {
	if id == 0 {
		return nil, nil
	}
	var row models.DiscountCode
	if err := r.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Create inserts a code.
func (r *GormDiscountCodeRepository) Create(code *models.DiscountCode) error {
	return r.db.Create(code).Error
}

// Update saves a code.
func (r *GormDiscountCodeRepository) Update(code *models.DiscountCode) error {
	return r.db.Save(code).Error
}

// Delete soft-deletes a code.
func (r *GormDiscountCodeRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.DiscountCode{}, id).Error
}

// IncrementUsage bumps used_count while the limit still allows it.
// Returns the number of rows updated so callers can detect exhaustion.
func (r *GormDiscountCodeRepository) IncrementUsage(id uint) (int64, error) {
	if id == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.DiscountCode{}).
		Where("id = ? AND (usage_limit = 0 OR used_count < usage_limit)", id).
		Updates(map[string]interface{}{
			"used_count": gorm.Expr("used_count + 1"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
