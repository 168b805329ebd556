package models

import (
	"time"

	"gorm.io/gorm"
)

// AffiliateUser is a referral partner credited with order commissions.
type AffiliateUser struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	Code          string         `gorm:"type:varchar(32);not null;uniqueIndex" json:"code"`
	Name          string         `gorm:"type:varchar(100);not null" json:"name"`
	Email         string         `gorm:"type:varchar(255);index" json:"email"`
	Status        string         `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalEarnings Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_earnings"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (AffiliateUser) TableName() string {
	return "affiliate_users"
}
