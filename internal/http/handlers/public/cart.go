package public

import (
	"strconv"

	"github.com/decalforge/decalforge/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CartItemRequest is the add/update cart line payload.
type CartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// DiscountCodeRequest applies a code to the cart.
type DiscountCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// GetCart returns the cart with recomputed totals, creating a fresh
// cart when the client has no token yet.
func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.CartService.GetOrCreate(cartToken(c))
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load cart", err)
		return
	}
	view, err := h.CartService.View(cart.Token)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, view)
}

// AddCartItem adds a product line to the cart.
func (h *Handler) AddCartItem(c *gin.Context) {
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	view, err := h.CartService.AddItem(cartToken(c), req.ProductID, req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, view)
}

// UpdateCartItem sets the quantity of a cart line. Zero removes it.
func (h *Handler) UpdateCartItem(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	view, err := h.CartService.UpdateItem(cartToken(c), uint(productID), req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, view)
}

// DeleteCartItem drops a line from the cart.
func (h *Handler) DeleteCartItem(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return
	}

	view, err := h.CartService.RemoveItem(cartToken(c), uint(productID))
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, view)
}

// ApplyDiscountCode validates and attaches a code to the cart.
func (h *Handler) ApplyDiscountCode(c *gin.Context) {
	var req DiscountCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	view, err := h.CartService.ApplyDiscountCode(cartToken(c), req.Code)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, view)
}

// RemoveDiscountCode detaches the code from the cart.
func (h *Handler) RemoveDiscountCode(c *gin.Context) {
	view, err := h.CartService.RemoveDiscountCode(cartToken(c))
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, view)
}
