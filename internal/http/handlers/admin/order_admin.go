package admin

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/decalforge/decalforge/internal/http/response"
	"github.com/decalforge/decalforge/internal/repository"
	"github.com/decalforge/decalforge/internal/service"

	"github.com/gin-gonic/gin"
)

// ListAdminOrders returns a filtered order page.
func (h *Handler) ListAdminOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListAdmin(repository.OrderListFilter{
		Status:        strings.TrimSpace(c.Query("status")),
		PaymentMethod: strings.TrimSpace(c.Query("payment_method")),
		Email:         strings.TrimSpace(c.Query("email")),
		Page:          page,
		PageSize:      pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load orders", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, orders, pagination)
}

// GetAdminOrder returns one order with its lines.
func (h *Handler) GetAdminOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.OrderService.GetAdmin(id)
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

// RefundOrderRequest is the refund payload. Amount is a decimal string.
type RefundOrderRequest struct {
	Amount string `json:"amount" binding:"required"`
	Reason string `json:"reason"`
}

// RefundOrder refunds part or all of a paid order through the original
// payment provider.
func (h *Handler) RefundOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RefundOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	order, err := h.RefundService.Refund(c.Request.Context(), id, req.Amount, req.Reason)
	if err != nil {
		respondOrderActionError(c, err, "refund failed")
		return
	}

	requestLog(c).Infow("order_refunded",
		"order_no", order.OrderNo,
		"amount", req.Amount,
		"status", order.Status,
	)
	response.Success(c, order)
}

// CancelOrderRequest is the cancel payload.
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// CancelOrder cancels an order. Money is never moved here; refund
// first when the order was paid.
func (h *Handler) CancelOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CancelOrderRequest
	_ = c.ShouldBindJSON(&req)

	order, err := h.RefundService.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		respondOrderActionError(c, err, "cancel failed")
		return
	}

	requestLog(c).Infow("order_cancelled", "order_no", order.OrderNo)
	response.Success(c, order)
}

// ShipOrder pushes the order to the carrier immediately instead of
// waiting for the queue.
func (h *Handler) ShipOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.ShippingService.PushShipment(c.Request.Context(), id)
	if err != nil {
		respondOrderActionError(c, err, "shipment push failed")
		return
	}

	response.Success(c, order)
}

// PaymentsReport aggregates orders by payment method and status over
// an optional date window.
func (h *Handler) PaymentsReport(c *gin.Context) {
	from, err := parseTimeQuery(c.Query("from"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid from date", nil)
		return
	}
	to, err := parseTimeQuery(c.Query("to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid to date", nil)
		return
	}

	rows, err := h.OrderService.PaymentReport(repository.PaymentReportFilter{From: from, To: to})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to build report", err)
		return
	}
	response.Success(c, gin.H{"rows": rows})
}

func respondOrderActionError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		respondError(c, response.CodeNotFound, "order not found", nil)
	case errors.Is(err, service.ErrOrderNotRefundable):
		respondError(c, response.CodeBadRequest, "order is not refundable in its current status", nil)
	case errors.Is(err, service.ErrRefundAmountInvalid):
		respondError(c, response.CodeBadRequest, "refund amount must be a positive decimal", nil)
	case errors.Is(err, service.ErrRefundExceedsRemaining):
		respondError(c, response.CodeBadRequest, "refund exceeds the remaining refundable amount", nil)
	case errors.Is(err, service.ErrOrderNotCancellable):
		respondError(c, response.CodeBadRequest, "order is not cancellable in its current status", nil)
	case errors.Is(err, service.ErrOrderNotShippable):
		respondError(c, response.CodeBadRequest, "order is not ready to ship", nil)
	case errors.Is(err, service.ErrPaymentGateway):
		respondError(c, response.CodeBadGateway, "payment provider rejected the request", err)
	default:
		respondError(c, response.CodeInternal, fallback, err)
	}
}

// parseTimeQuery accepts RFC3339 or a plain date.
func parseTimeQuery(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return &parsed, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
