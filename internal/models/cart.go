package models

import (
	"time"

	"gorm.io/gorm"
)

// Cart is a token-addressed shopping cart.
type Cart struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Token     string         `gorm:"uniqueIndex;not null" json:"token"`
	// Discount code applied to the cart, validated on every read
	DiscountCode string    `gorm:"type:varchar(64)" json:"discount_code,omitempty"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Items []CartItem `gorm:"foreignKey:CartID" json:"items,omitempty"`
}

// TableName sets the table name.
func (Cart) TableName() string {
	return "carts"
}
