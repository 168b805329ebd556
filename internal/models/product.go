package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is a catalog entry.
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	SKU         string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"sku"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	PriceAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_amount"`
	ImageURL    string         `gorm:"type:varchar(512)" json:"image_url"`
	Stock       int            `gorm:"not null;default:0" json:"stock"`
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Product) TableName() string {
	return "products"
}
