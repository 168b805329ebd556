package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/decalforge/decalforge/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AffiliateRepository is the affiliate ledger data access interface.
type AffiliateRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) AffiliateRepository

	GetUserByID(id uint) (*models.AffiliateUser, error)
	GetUserByCode(code string) (*models.AffiliateUser, error)
	ListUsers(page, pageSize int) ([]models.AffiliateUser, int64, error)
	CreateUser(user *models.AffiliateUser) error
	UpdateUser(user *models.AffiliateUser) error
	AddEarnings(userID uint, delta decimal.Decimal) error

	CreateCommission(commission *models.AffiliateCommission) error
	UpdateCommission(commission *models.AffiliateCommission) error
	GetCommissionByOrderAndUser(orderID, userID uint) (*models.AffiliateCommission, error)
	ListCommissions(filter CommissionListFilter) ([]models.AffiliateCommission, int64, error)
	ListCommissionsByOrder(orderID uint, statuses []string) ([]models.AffiliateCommission, error)
	ListCommissionsByOrderForUpdate(orderID uint, statuses []string) ([]models.AffiliateCommission, error)
	SumCommissionByUser(userID uint, statuses []string) (decimal.Decimal, error)
}

// GormAffiliateRepository is the GORM implementation.
type GormAffiliateRepository struct {
	db *gorm.DB
}

// NewAffiliateRepository creates an affiliate repository.
func NewAffiliateRepository(db *gorm.DB) *GormAffiliateRepository {
	return &GormAffiliateRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormAffiliateRepository) WithTx(tx *gorm.DB) AffiliateRepository {
	if tx == nil {
		return r
	}
	return &GormAffiliateRepository{db: tx}
}

// Transaction runs fn inside a transaction.
func (r *GormAffiliateRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetUserByID looks up an affiliate by id.
func (r *GormAffiliateRepository) GetUserByID(id uint) (*models.AffiliateUser, error) {
	if id == 0 {
		return nil, nil
	}
	var user models.AffiliateUser
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByCode looks up an affiliate by referral code.
func (r *GormAffiliateRepository) GetUserByCode(code string) (*models.AffiliateUser, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, nil
	}
	var user models.AffiliateUser
	if err := r.db.Where("code = ?", normalized).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers returns a paginated affiliate page.
func (r *GormAffiliateRepository) ListUsers(page, pageSize int) ([]models.AffiliateUser, int64, error) {
	query := r.db.Model(&models.AffiliateUser{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	users := make([]models.AffiliateUser, 0)
	query = applyPagination(query, page, pageSize)
	if err := query.Order("id DESC").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// CreateUser inserts an affiliate.
func (r *GormAffiliateRepository) CreateUser(user *models.AffiliateUser) error {
	return r.db.Create(user).Error
}

// UpdateUser saves an affiliate.
func (r *GormAffiliateRepository) UpdateUser(user *models.AffiliateUser) error {
	return r.db.Save(user).Error
}

// AddEarnings shifts lifetime earnings by delta, which may be negative.
func (r *GormAffiliateRepository) AddEarnings(userID uint, delta decimal.Decimal) error {
	if userID == 0 || delta.IsZero() {
		return nil
	}
	return r.db.Model(&models.AffiliateUser{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"total_earnings": gorm.Expr("total_earnings + ?", delta),
			"updated_at":     time.Now(),
		}).Error
}

// CreateCommission inserts a ledger entry.
func (r *GormAffiliateRepository) CreateCommission(commission *models.AffiliateCommission) error {
	return r.db.Create(commission).Error
}

// UpdateCommission saves a ledger entry.
func (r *GormAffiliateRepository) UpdateCommission(commission *models.AffiliateCommission) error {
	return r.db.Save(commission).Error
}

// GetCommissionByOrderAndUser looks up the ledger entry for an order and affiliate.
func (r *GormAffiliateRepository) GetCommissionByOrderAndUser(orderID, userID uint) (*models.AffiliateCommission, error) {
	if orderID == 0 || userID == 0 {
		return nil, nil
	}
	var commission models.AffiliateCommission
	if err := r.db.Where("order_id = ? AND affiliate_user_id = ?", orderID, userID).First(&commission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &commission, nil
}

// ListCommissions returns a filtered, paginated ledger page.
func (r *GormAffiliateRepository) ListCommissions(filter CommissionListFilter) ([]models.AffiliateCommission, int64, error) {
	query := r.db.Model(&models.AffiliateCommission{}).
		Preload("AffiliateUser").
		Preload("Order")
	if filter.AffiliateUserID != 0 {
		query = query.Where("affiliate_commissions.affiliate_user_id = ?", filter.AffiliateUserID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("affiliate_commissions.status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	rows := make([]models.AffiliateCommission, 0)
	if err := query.Order("affiliate_commissions.id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListCommissionsByOrder returns ledger entries for an order.
func (r *GormAffiliateRepository) ListCommissionsByOrder(orderID uint, statuses []string) ([]models.AffiliateCommission, error) {
	if orderID == 0 {
		return []models.AffiliateCommission{}, nil
	}
	query := r.db.Model(&models.AffiliateCommission{}).Where("order_id = ?", orderID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	rows := make([]models.AffiliateCommission, 0)
	if err := query.Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListCommissionsByOrderForUpdate returns ledger entries for an order with row locks.
func (r *GormAffiliateRepository) ListCommissionsByOrderForUpdate(orderID uint, statuses []string) ([]models.AffiliateCommission, error) {
	if orderID == 0 {
		return []models.AffiliateCommission{}, nil
	}
	query := r.db.Model(&models.AffiliateCommission{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("order_id = ?", orderID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	rows := make([]models.AffiliateCommission, 0)
	if err := query.Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SumCommissionByUser sums commission amounts in the given statuses.
func (r *GormAffiliateRepository) SumCommissionByUser(userID uint, statuses []string) (decimal.Decimal, error) {
	if userID == 0 || len(statuses) == 0 {
		return decimal.Zero, nil
	}
	var row struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	err := r.db.Model(&models.AffiliateCommission{}).
		Where("affiliate_user_id = ? AND status IN ?", userID, statuses).
		Select("COALESCE(SUM(commission_amount), 0) AS total").
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total.Round(2), nil
}
