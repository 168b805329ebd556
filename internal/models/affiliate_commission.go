package models

import (
	"time"

	"gorm.io/gorm"
)

// AffiliateCommission is a per-order commission ledger row.
type AffiliateCommission struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	AffiliateUserID  uint           `gorm:"not null;index;index:idx_affiliate_commission_unique,unique" json:"affiliate_user_id"`
	OrderID          uint           `gorm:"not null;index;index:idx_affiliate_commission_unique,unique" json:"order_id"`
	BaseAmount       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"base_amount"`
	RatePercent      Money          `gorm:"type:decimal(10,2);not null;default:0" json:"rate_percent"`
	CommissionAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"commission_amount"`
	Status           string         `gorm:"type:varchar(32);not null;index" json:"status"`
	ReversalReason   string         `gorm:"type:varchar(255)" json:"reversal_reason"`
	EarnedAt         *time.Time     `gorm:"index" json:"earned_at,omitempty"`
	ReversedAt       *time.Time     `gorm:"index" json:"reversed_at,omitempty"`
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	AffiliateUser AffiliateUser `gorm:"foreignKey:AffiliateUserID" json:"affiliate_user,omitempty"`
	Order         CheckoutOrder `gorm:"foreignKey:OrderID" json:"order,omitempty"`
}

// TableName sets the table name.
func (AffiliateCommission) TableName() string {
	return "affiliate_commissions"
}
