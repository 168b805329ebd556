package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/decalforge/decalforge/internal/models"

	"gorm.io/gorm"
)

// CartRepository is the cart data access interface.
type CartRepository interface {
	Create(cart *models.Cart) error
	GetByToken(token string) (*models.Cart, error)
	GetByID(id uint) (*models.Cart, error)
	ListItems(cartID uint) ([]models.CartItem, error)
	GetItem(cartID, productID uint) (*models.CartItem, error)
	CreateItem(item *models.CartItem) error
	UpdateItemQuantity(itemID uint, quantity int) error
	DeleteItem(itemID uint) error
	ClearItems(cartID uint) error
	SetDiscountCode(cartID uint, code string) error
}

// GormCartRepository is the GORM implementation.
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates a cart repository.
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// Create inserts a cart.
func (r *GormCartRepository) Create(cart *models.Cart) error {
	return r.db.Create(cart).Error
}

// GetByToken looks up a cart with its items.
func (r *GormCartRepository) GetByToken(token string) (*models.Cart, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}
	var cart models.Cart
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Items.Product").
		Where("token = ?", token).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// GetByID looks up a cart with its items.
func (r *GormCartRepository) GetByID(id uint) (*models.Cart, error) {
	if id == 0 {
		return nil, nil
	}
	var cart models.Cart
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Items.Product").
		First(&cart, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// ListItems returns every line of a cart.
func (r *GormCartRepository) ListItems(cartID uint) ([]models.CartItem, error) {
	if cartID == 0 {
		return []models.CartItem{}, nil
	}
	items := make([]models.CartItem, 0)
	if err := r.db.Where("cart_id = ?", cartID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetItem looks up one cart line by product.
func (r *GormCartRepository) GetItem(cartID, productID uint) (*models.CartItem, error) {
	if cartID == 0 || productID == 0 {
		return nil, nil
	}
	var item models.CartItem
	if err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// CreateItem inserts a cart line.
func (r *GormCartRepository) CreateItem(item *models.CartItem) error {
	return r.db.Create(item).Error
}

// UpdateItemQuantity sets the quantity of a line.
func (r *GormCartRepository) UpdateItemQuantity(itemID uint, quantity int) error {
	if itemID == 0 {
		return nil
	}
	return r.db.Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now(),
		}).Error
}

// DeleteItem removes a line.
func (r *GormCartRepository) DeleteItem(itemID uint) error {
	if itemID == 0 {
		return nil
	}
	return r.db.Delete(&models.CartItem{}, itemID).Error
}

// ClearItems removes every line of a cart.
func (r *GormCartRepository) ClearItems(cartID uint) error {
	if cartID == 0 {
		return nil
	}
	return r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

// SetDiscountCode stores the applied code on the cart.
func (r *GormCartRepository) SetDiscountCode(cartID uint, code string) error {
	if cartID == 0 {
		return nil
	}
	return r.db.Model(&models.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]interface{}{
			"discount_code": strings.ToUpper(strings.TrimSpace(code)),
			"updated_at":    time.Now(),
		}).Error
}
