package service

import (
	"strings"
	"time"

	"github.com/decalforge/decalforge/internal/constants"
	"github.com/decalforge/decalforge/internal/models"
	"github.com/decalforge/decalforge/internal/repository"

	"gorm.io/gorm"
)

// DiscountService handles cart-level discount codes.
type DiscountService struct {
	repo repository.DiscountCodeRepository
}

// NewDiscountService creates a discount service.
func NewDiscountService(repo repository.DiscountCodeRepository) *DiscountService {
	return &DiscountService{repo: repo}
}

// DiscountCodeInput is the create/update payload.
type DiscountCodeInput struct {
	Code       string
	Type       string
	Value      models.Money
	UsageLimit int
	ExpiresAt  *time.Time
	IsActive   *bool
}

// Resolve validates a code for use at checkout and returns it.
func (s *DiscountService) Resolve(code string) (*models.DiscountCode, error) {
	row, err := s.repo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if row == nil || !row.IsActive {
		return nil, ErrDiscountCodeInvalid
	}
	if row.ExpiresAt != nil && row.ExpiresAt.Before(time.Now()) {
		return nil, ErrDiscountCodeExpired
	}
	if row.UsageLimit > 0 && row.UsedCount >= row.UsageLimit {
		return nil, ErrDiscountCodeExhausted
	}
	return row, nil
}

// Consume bumps the usage counter after a successful checkout.
func (s *DiscountService) Consume(id uint) error {
	return s.ConsumeTx(nil, id)
}

// ConsumeTx bumps the usage counter inside the caller's transaction so
// the increment commits or rolls back with the order.
func (s *DiscountService) ConsumeTx(tx *gorm.DB, id uint) error {
	affected, err := s.repo.WithTx(tx).IncrementUsage(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrDiscountCodeExhausted
	}
	return nil
}

// ListAdmin returns codes for the back office.
func (s *DiscountService) ListAdmin(page, pageSize int) ([]models.DiscountCode, int64, error) {
	return s.repo.List(repository.DiscountCodeListFilter{
		Page:     page,
		PageSize: pageSize,
	})
}

// GetByID returns one code.
func (s *DiscountService) GetByID(id uint) (*models.DiscountCode, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrNotFound
	}
	return row, nil
}

// Create inserts a code.
func (s *DiscountService) Create(input DiscountCodeInput) (*models.DiscountCode, error) {
	normalized := strings.ToUpper(strings.TrimSpace(input.Code))
	if normalized == "" || !isAllowedDiscountType(input.Type) {
		return nil, ErrDiscountCodeInvalid
	}

	existing, err := s.repo.GetByCode(normalized)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCodeExists
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	row := models.DiscountCode{
		Code:       normalized,
		Type:       input.Type,
		Value:      input.Value,
		UsageLimit: input.UsageLimit,
		ExpiresAt:  input.ExpiresAt,
		IsActive:   isActive,
	}
	if err := s.repo.Create(&row); err != nil {
		return nil, err
	}
	return &row, nil
}

// Update saves code changes.
func (s *DiscountService) Update(id uint, input DiscountCodeInput) (*models.DiscountCode, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrNotFound
	}

	normalized := strings.ToUpper(strings.TrimSpace(input.Code))
	if normalized == "" || !isAllowedDiscountType(input.Type) {
		return nil, ErrDiscountCodeInvalid
	}
	existing, err := s.repo.GetByCode(normalized)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != id {
		return nil, ErrCodeExists
	}

	row.Code = normalized
	row.Type = input.Type
	row.Value = input.Value
	row.UsageLimit = input.UsageLimit
	row.ExpiresAt = input.ExpiresAt
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}

	if err := s.repo.Update(row); err != nil {
		return nil, err
	}
	return row, nil
}

// Delete removes a code.
func (s *DiscountService) Delete(id uint) error {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if row == nil {
		return ErrNotFound
	}
	return s.repo.Delete(id)
}

func isAllowedDiscountType(discountType string) bool {
	switch discountType {
	case constants.DiscountTypePercent, constants.DiscountTypeFixed:
		return true
	default:
		return false
	}
}
