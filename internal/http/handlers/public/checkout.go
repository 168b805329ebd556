package public

import (
	"github.com/decalforge/decalforge/internal/http/response"
	"github.com/decalforge/decalforge/internal/service"

	"github.com/gin-gonic/gin"
)

// AddressRequest is one address block of the checkout payload.
type AddressRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
}

// CheckoutRequest is the storefront checkout payload.
type CheckoutRequest struct {
	Email           string         `json:"email" binding:"required"`
	Phone           string         `json:"phone"`
	Billing         AddressRequest `json:"billing" binding:"required"`
	ShipToDifferent bool           `json:"ship_to_different"`
	Shipping        AddressRequest `json:"shipping"`
	PaymentMethod   string         `json:"payment_method" binding:"required"`
	AffiliateCode   string         `json:"affiliate_code"`
	ExpectedTotal   string         `json:"expected_total"`
	PaypalOrderID   string         `json:"paypal_order_id"`
}

// Checkout turns the cart into an order.
func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	result, err := h.CheckoutService.Checkout(c.Request.Context(), service.CheckoutInput{
		CartToken:       cartToken(c),
		Email:           req.Email,
		Phone:           req.Phone,
		Billing:         toCheckoutAddress(req.Billing),
		ShipToDifferent: req.ShipToDifferent,
		Shipping:        toCheckoutAddress(req.Shipping),
		PaymentMethod:   req.PaymentMethod,
		AffiliateCode:   req.AffiliateCode,
		ExpectedTotal:   req.ExpectedTotal,
		PaypalOrderID:   req.PaypalOrderID,
	})
	if err != nil {
		requestLog(c).Warnw("checkout_failed",
			"payment_method", req.PaymentMethod,
			"error", err,
		)
		respondCheckoutError(c, err)
		return
	}

	requestLog(c).Infow("order_placed",
		"order_no", result.Order.OrderNo,
		"payment_method", result.Order.PaymentMethod,
		"status", result.Order.Status,
		"total", result.Order.TotalAmount,
	)
	response.Success(c, result)
}

func toCheckoutAddress(a AddressRequest) service.CheckoutAddress {
	return service.CheckoutAddress{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Address1:  a.Address1,
		Address2:  a.Address2,
		City:      a.City,
		State:     a.State,
		Postcode:  a.Postcode,
		Country:   a.Country,
	}
}
