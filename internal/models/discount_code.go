package models

import (
	"time"

	"gorm.io/gorm"
)

// DiscountCode is an admin-issued promotion code applied at cart level.
type DiscountCode struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	Code       string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	Type       string         `gorm:"type:varchar(20);not null;default:'percent'" json:"type"` // percent | fixed
	Value      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"value"`
	UsageLimit int            `gorm:"not null;default:0" json:"usage_limit"` // 0 means unlimited
	UsedCount  int            `gorm:"not null;default:0" json:"used_count"`
	ExpiresAt  *time.Time     `gorm:"index" json:"expires_at,omitempty"`
	IsActive   bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (DiscountCode) TableName() string {
	return "discount_codes"
}
