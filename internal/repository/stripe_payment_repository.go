package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/decalforge/decalforge/internal/models"

	"gorm.io/gorm"
)

// StripePaymentRepository tracks checkout sessions and their outcomes.
type StripePaymentRepository interface {
	Create(payment *models.StripePayment) error
	GetBySessionID(sessionID string) (*models.StripePayment, error)
	GetByOrderID(orderID uint) (*models.StripePayment, error)
	UpdateStatus(id uint, status string, updates map[string]interface{}) error
	WithTx(tx *gorm.DB) StripePaymentRepository
}

// GormStripePaymentRepository is the GORM implementation.
type GormStripePaymentRepository struct {
	db *gorm.DB
}

// NewStripePaymentRepository creates a stripe payment repository.
func NewStripePaymentRepository(db *gorm.DB) *GormStripePaymentRepository {
	return &GormStripePaymentRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormStripePaymentRepository) WithTx(tx *gorm.DB) StripePaymentRepository {
	if tx == nil {
		return r
	}
	return &GormStripePaymentRepository{db: tx}
}

// Create inserts a payment record.
func (r *GormStripePaymentRepository) Create(payment *models.StripePayment) error {
	return r.db.Create(payment).Error
}

// GetBySessionID looks up a payment by checkout session.
func (r *GormStripePaymentRepository) GetBySessionID(sessionID string) (*models.StripePayment, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, nil
	}
	var payment models.StripePayment
	if err := r.db.Where("session_id = ?", sessionID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// GetByOrderID looks up the latest payment of an order.
func (r *GormStripePaymentRepository) GetByOrderID(orderID uint) (*models.StripePayment, error) {
	if orderID == 0 {
		return nil, nil
	}
	var payment models.StripePayment
	if err := r.db.Where("order_id = ?", orderID).Order("id DESC").First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// UpdateStatus updates the payment status plus extra columns.
func (r *GormStripePaymentRepository) UpdateStatus(id uint, status string, updates map[string]interface{}) error {
	if id == 0 {
		return nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if strings.TrimSpace(status) != "" {
		updates["status"] = strings.TrimSpace(status)
	}
	updates["updated_at"] = time.Now()
	return r.db.Model(&models.StripePayment{}).Where("id = ?", id).Updates(updates).Error
}
