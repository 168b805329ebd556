package models

import (
	"time"

	"gorm.io/gorm"
)

// GalleryItem is a showcase image displayed on the storefront.
type GalleryItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Title     string         `gorm:"type:varchar(255);not null" json:"title"`
	ImageURL  string         `gorm:"type:varchar(512);not null" json:"image_url"`
	Category  string         `gorm:"type:varchar(64);index" json:"category"`
	SortOrder int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (GalleryItem) TableName() string {
	return "gallery_items"
}
