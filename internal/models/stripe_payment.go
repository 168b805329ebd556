package models

import "time"

// StripePayment tracks a hosted checkout session for an order.
type StripePayment struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	OrderID         uint      `gorm:"not null;index" json:"order_id"`
	SessionID       string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"session_id"`
	PaymentIntentID string    `gorm:"type:varchar(255);index" json:"payment_intent_id"`
	Amount          Money     `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`
	Currency        string    `gorm:"type:varchar(8);not null" json:"currency"`
	Status          string    `gorm:"type:varchar(32);not null;index" json:"status"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (StripePayment) TableName() string {
	return "stripe_payments"
}
