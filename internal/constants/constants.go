package constants

// Order status constants
const (
	OrderStatusPending           = "pending"
	OrderStatusOnHold            = "on-hold"
	OrderStatusCompleted         = "completed"
	OrderStatusPartiallyRefunded = "partially_refunded"
	OrderStatusRefunded          = "refunded"
	OrderStatusCancelled         = "cancelled"
	OrderStatusFailed            = "failed"
)

// Payment method constants
const (
	PaymentMethodStripe = "stripe"
	PaymentMethodPaypal = "paypal"
	PaymentMethodCOD    = "cod"
)

// Stripe payment record status constants
const (
	StripePaymentStatusPending   = "pending"
	StripePaymentStatusCompleted = "completed"
	StripePaymentStatusFailed    = "failed"
)

// Affiliate commission status constants
const (
	AffiliateCommissionStatusPending  = "pending"
	AffiliateCommissionStatusOnHold   = "on-hold"
	AffiliateCommissionStatusEarned   = "earned"
	AffiliateCommissionStatusReversed = "reversed"
)

// Affiliate status constants
const (
	AffiliateStatusActive   = "active"
	AffiliateStatusDisabled = "disabled"
)

// Commission rate applied to order totals, in percent.
const AffiliateCommissionRatePercent = 10

// Post status constants
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// Discount code type constants
const (
	DiscountTypePercent = "percent"
	DiscountTypeFixed   = "fixed"
)

// Shipment push status constants
const (
	ShipmentStatusPending = "pending"
	ShipmentStatusPushed  = "pushed"
	ShipmentStatusFailed  = "failed"
)

// Queue constants
const (
	QueueDefault     = "default"
	TaskShipmentPush = "shipment:push"
)

// Cache default constants
const (
	RedisPrefixDefault = "df"
)
