package service

import "errors"

// Sentinel errors shared by services and mapped to API responses by the
// handler error tables.
var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidPassword    = errors.New("current password is incorrect")
	ErrWeakPassword       = errors.New("password does not meet requirements")
	ErrSlugExists         = errors.New("slug already exists")
	ErrSKUExists          = errors.New("sku already exists")
	ErrCodeExists         = errors.New("code already exists")

	ErrCartNotFound    = errors.New("cart not found")
	ErrCartEmpty       = errors.New("cart is empty")
	ErrProductNotFound = errors.New("product not found")
	ErrProductInactive = errors.New("product is not available")
	ErrInvalidQuantity = errors.New("invalid quantity")

	ErrDiscountCodeInvalid   = errors.New("discount code is invalid")
	ErrDiscountCodeExpired   = errors.New("discount code has expired")
	ErrDiscountCodeExhausted = errors.New("discount code usage limit reached")

	ErrBillingIncomplete    = errors.New("billing address is incomplete")
	ErrPaymentMethodInvalid = errors.New("unsupported payment method")
	ErrTotalsMismatch       = errors.New("order totals do not match cart contents")
	ErrPaymentGateway       = errors.New("payment gateway error")

	ErrOrderNotFound          = errors.New("order not found")
	ErrOrderNotRefundable     = errors.New("order cannot be refunded in its current state")
	ErrOrderNotCancellable    = errors.New("order cannot be cancelled in its current state")
	ErrRefundAmountInvalid    = errors.New("refund amount is invalid")
	ErrRefundExceedsRemaining = errors.New("refund amount exceeds the refundable balance")
	ErrOrderNotShippable      = errors.New("order is not ready for shipment")

	ErrAffiliateNotFound = errors.New("affiliate not found")
)
