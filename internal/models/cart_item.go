package models

import "time"

// CartItem is a single cart line. Name and unit price are snapshots
// taken when the line was added; discounts are recomputed on read.
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CartID    uint      `gorm:"not null;uniqueIndex:idx_cart_item_product" json:"cart_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_item_product" json:"product_id"`
	SKU       string    `gorm:"type:varchar(64);not null" json:"sku"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	UnitPrice Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName sets the table name.
func (CartItem) TableName() string {
	return "cart_items"
}
