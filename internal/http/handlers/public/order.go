package public

import (
	"errors"
	"strings"

	"github.com/decalforge/decalforge/internal/http/response"
	"github.com/decalforge/decalforge/internal/service"

	"github.com/gin-gonic/gin"
)

// TrackOrder is the public order lookup. It requires the order number
// plus the email the order was placed with, so a number alone leaks
// nothing.
func (h *Handler) TrackOrder(c *gin.Context) {
	orderNo := strings.TrimSpace(c.Query("order_no"))
	email := strings.TrimSpace(c.Query("email"))
	if orderNo == "" || email == "" {
		respondError(c, response.CodeBadRequest, "order_no and email are required", nil)
		return
	}

	order, err := h.OrderService.TrackOrder(orderNo, email)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "order not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to load order", err)
		return
	}

	response.Success(c, order)
}
