package public

import (
	"errors"

	"github.com/decalforge/decalforge/internal/http/response"
	"github.com/decalforge/decalforge/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError binds a service error to an API response.
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var discountCodeErrorRules = []mappedHandlerError{
	{target: service.ErrDiscountCodeInvalid, code: response.CodeBadRequest, msg: "discount code is not valid"},
	{target: service.ErrDiscountCodeExpired, code: response.CodeBadRequest, msg: "discount code has expired"},
	{target: service.ErrDiscountCodeExhausted, code: response.CodeBadRequest, msg: "discount code usage limit reached"},
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrCartNotFound, code: response.CodeNotFound, msg: "cart not found"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrProductInactive, code: response.CodeBadRequest, msg: "product is not available"},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, msg: "quantity must be positive"},
	{target: service.ErrNotFound, code: response.CodeNotFound, msg: "cart item not found"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrCartNotFound, code: response.CodeNotFound, msg: "cart not found"},
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, msg: "cart is empty"},
	{target: service.ErrInvalidCredentials, code: response.CodeBadRequest, msg: "email is required"},
	{target: service.ErrBillingIncomplete, code: response.CodeBadRequest, msg: "billing address is incomplete"},
	{target: service.ErrPaymentMethodInvalid, code: response.CodeBadRequest, msg: "unsupported payment method"},
	{target: service.ErrTotalsMismatch, code: response.CodeBadRequest, msg: "order total changed, refresh the cart"},
	{target: service.ErrPaymentGateway, code: response.CodeBadGateway, msg: "payment provider rejected the request"},
}

func respondCartError(c *gin.Context, err error) {
	rules := append(append([]mappedHandlerError{}, cartErrorRules...), discountCodeErrorRules...)
	respondWithMappedError(c, err, rules, response.CodeInternal, "cart operation failed")
}

func respondCheckoutError(c *gin.Context, err error) {
	rules := append(append([]mappedHandlerError{}, checkoutErrorRules...), discountCodeErrorRules...)
	respondWithMappedError(c, err, rules, response.CodeInternal, "checkout failed")
}
