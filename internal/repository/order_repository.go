package repository

import (
	"errors"
	"strings"

	"github.com/decalforge/decalforge/internal/models"

	"gorm.io/gorm"
)

// OrderRepository is the order data access interface.
type OrderRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) *GormOrderRepository

	Create(order *models.CheckoutOrder) error
	GetByID(id uint) (*models.CheckoutOrder, error)
	GetByOrderNo(orderNo string) (*models.CheckoutOrder, error)
	GetByOrderNoAndEmail(orderNo, email string) (*models.CheckoutOrder, error)
	GetByStripeSessionID(sessionID string) (*models.CheckoutOrder, error)
	ListAdmin(filter OrderListFilter) ([]models.CheckoutOrder, int64, error)
	UpdateStatus(id uint, status string, updates map[string]interface{}) error
	Update(order *models.CheckoutOrder) error
	PaymentReport(filter PaymentReportFilter) ([]PaymentReportRow, error)
}

// GormOrderRepository is the GORM implementation.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates an order repository.
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Transaction runs fn inside a transaction.
func (r *GormOrderRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create inserts an order.
func (r *GormOrderRepository) Create(order *models.CheckoutOrder) error {
	return r.db.Create(order).Error
}

// GetByID looks up an order by id.
func (r *GormOrderRepository) GetByID(id uint) (*models.CheckoutOrder, error) {
	var order models.CheckoutOrder
	if err := r.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNo looks up an order by order number.
func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.CheckoutOrder, error) {
	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return nil, nil
	}
	var order models.CheckoutOrder
	if err := r.db.Where("order_no = ?", orderNo).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNoAndEmail looks up an order for the storefront tracker.
func (r *GormOrderRepository) GetByOrderNoAndEmail(orderNo, email string) (*models.CheckoutOrder, error) {
	orderNo = strings.TrimSpace(orderNo)
	email = strings.ToLower(strings.TrimSpace(email))
	if orderNo == "" || email == "" {
		return nil, nil
	}
	var order models.CheckoutOrder
	if err := r.db.Where("order_no = ? AND LOWER(email) = ?", orderNo, email).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByStripeSessionID looks up the order a webhook event refers to.
func (r *GormOrderRepository) GetByStripeSessionID(sessionID string) (*models.CheckoutOrder, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, nil
	}
	var order models.CheckoutOrder
	if err := r.db.Where("stripe_session_id = ?", sessionID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ListAdmin returns a filtered, paginated order page for the back office.
func (r *GormOrderRepository) ListAdmin(filter OrderListFilter) ([]models.CheckoutOrder, int64, error) {
	query := r.db.Model(&models.CheckoutOrder{})
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if method := strings.TrimSpace(filter.PaymentMethod); method != "" {
		query = query.Where("payment_method = ?", method)
	}
	if email := strings.ToLower(strings.TrimSpace(filter.Email)); email != "" {
		query = query.Where("LOWER(email) = ?", email)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]models.CheckoutOrder, 0)
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("id desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus updates the order status plus extra columns.
func (r *GormOrderRepository) UpdateStatus(id uint, status string, updates map[string]interface{}) error {
	if id == 0 {
		return nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if strings.TrimSpace(status) != "" {
		updates["status"] = strings.TrimSpace(status)
	}
	return r.db.Model(&models.CheckoutOrder{}).Where("id = ?", id).Updates(updates).Error
}

// Update saves an order.
func (r *GormOrderRepository) Update(order *models.CheckoutOrder) error {
	return r.db.Save(order).Error
}

// PaymentReport aggregates order totals by method and status.
func (r *GormOrderRepository) PaymentReport(filter PaymentReportFilter) ([]PaymentReportRow, error) {
	query := r.db.Model(&models.CheckoutOrder{}).
		Select("payment_method, status, COUNT(*) AS order_count, COALESCE(SUM(total_amount), 0) AS total_amount, COALESCE(SUM(refunded_amount), 0) AS refunded_total").
		Group("payment_method, status")
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}

	rows := make([]PaymentReportRow, 0)
	if err := query.Order("payment_method, status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
