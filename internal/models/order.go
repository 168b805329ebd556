package models

import (
	"time"

	"gorm.io/gorm"
)

// CheckoutOrder is a placed storefront order.
type CheckoutOrder struct {
	ID      uint   `gorm:"primarykey" json:"id"`
	OrderNo string `gorm:"uniqueIndex;not null" json:"order_no"`
	CartID  *uint  `gorm:"index" json:"cart_id,omitempty"`

	Email string `gorm:"index;not null" json:"email"`
	Phone string `gorm:"type:varchar(32)" json:"phone"`

	// Billing address block
	BillingFirstName string `gorm:"type:varchar(100)" json:"billing_first_name"`
	BillingLastName  string `gorm:"type:varchar(100)" json:"billing_last_name"`
	BillingAddress1  string `gorm:"type:varchar(255)" json:"billing_address_1"`
	BillingAddress2  string `gorm:"type:varchar(255)" json:"billing_address_2,omitempty"`
	BillingCity      string `gorm:"type:varchar(100)" json:"billing_city"`
	BillingState     string `gorm:"type:varchar(100)" json:"billing_state"`
	BillingPostcode  string `gorm:"type:varchar(20)" json:"billing_postcode"`
	BillingCountry   string `gorm:"type:varchar(2)" json:"billing_country"`

	// Shipping address block, used when ShipToDifferent is set
	ShipToDifferent   bool   `gorm:"not null;default:false" json:"ship_to_different"`
	ShippingFirstName string `gorm:"type:varchar(100)" json:"shipping_first_name,omitempty"`
	ShippingLastName  string `gorm:"type:varchar(100)" json:"shipping_last_name,omitempty"`
	ShippingAddress1  string `gorm:"type:varchar(255)" json:"shipping_address_1,omitempty"`
	ShippingAddress2  string `gorm:"type:varchar(255)" json:"shipping_address_2,omitempty"`
	ShippingCity      string `gorm:"type:varchar(100)" json:"shipping_city,omitempty"`
	ShippingState     string `gorm:"type:varchar(100)" json:"shipping_state,omitempty"`
	ShippingPostcode  string `gorm:"type:varchar(20)" json:"shipping_postcode,omitempty"`
	ShippingCountry   string `gorm:"type:varchar(2)" json:"shipping_country,omitempty"`

	PaymentMethod string `gorm:"index;not null" json:"payment_method"` // stripe | paypal | cod
	Status        string `gorm:"index;not null" json:"status"`

	SubtotalAmount Money `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal_amount"`
	ShippingAmount Money `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_amount"`
	DiscountAmount Money `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`
	TotalAmount    Money `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`
	RefundedAmount Money `gorm:"type:decimal(20,2);not null;default:0" json:"refunded_amount"`

	DiscountCode  string `gorm:"type:varchar(64);index" json:"discount_code,omitempty"`
	AffiliateCode string `gorm:"type:varchar(64);index" json:"affiliate_code,omitempty"`

	// Provider references
	StripeSessionID       string `gorm:"type:varchar(255);index" json:"stripe_session_id,omitempty"`
	StripePaymentIntentID string `gorm:"type:varchar(255);index" json:"stripe_payment_intent_id,omitempty"`
	PaypalOrderID         string `gorm:"type:varchar(255);index" json:"paypal_order_id,omitempty"`
	PaypalCaptureID       string `gorm:"type:varchar(255);index" json:"paypal_capture_id,omitempty"`

	// Shipment references
	ShipmentID string     `gorm:"type:varchar(64);index" json:"shipment_id,omitempty"`
	AWBCode    string     `gorm:"type:varchar(64)" json:"awb_code,omitempty"`
	ShippedAt  *time.Time `json:"shipped_at,omitempty"`

	PaidAt      *time.Time     `gorm:"index" json:"paid_at,omitempty"`
	CancelledAt *time.Time     `gorm:"index" json:"cancelled_at,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Line items loaded from the originating cart, not a gorm association.
	Items []CartItem `gorm:"-" json:"items,omitempty"`
}

// TableName sets the table name.
func (CheckoutOrder) TableName() string {
	return "checkout_orders"
}

// RemainingRefundable returns total minus what was already refunded.
func (o *CheckoutOrder) RemainingRefundable() Money {
	return NewMoneyFromDecimal(o.TotalAmount.Decimal.Sub(o.RefundedAmount.Decimal))
}
