package service

import (
	"context"
	"fmt"
	"time"

	"github.com/decalforge/decalforge/internal/config"
	"github.com/decalforge/decalforge/internal/constants"
	"github.com/decalforge/decalforge/internal/logger"
	"github.com/decalforge/decalforge/internal/models"
	"github.com/decalforge/decalforge/internal/repository"
	"github.com/decalforge/decalforge/internal/shipping/shiprocket"
)

// ShippingService forwards orders to Shiprocket. Pushes are idempotent
// on the stored shipment id, and a failed push never touches the order
// beyond logging; the queue retries it.
type ShippingService struct {
	cfg       *config.Config
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
}

// NewShippingService creates a shipping service.
func NewShippingService(cfg *config.Config, orderRepo repository.OrderRepository, cartRepo repository.CartRepository) *ShippingService {
	return &ShippingService{
		cfg:       cfg,
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
	}
}

// PushShipment creates the Shiprocket order for a placed order. An
// order that already carries a shipment id is returned unchanged.
func (s *ShippingService) PushShipment(ctx context.Context, orderID uint) (*models.CheckoutOrder, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.ShipmentID != "" {
		logger.Debugw("shipment already pushed", "order_no", order.OrderNo, "shipment_id", order.ShipmentID)
		return order, nil
	}
	if !isShippableStatus(order.Status) {
		return nil, ErrOrderNotShippable
	}

	items, err := s.loadOrderItems(order)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrOrderNotShippable
	}

	cfg := &shiprocket.Config{
		Email:          s.cfg.Shiprocket.Email,
		Password:       s.cfg.Shiprocket.Password,
		APIBaseURL:     s.cfg.Shiprocket.APIBaseURL,
		PickupLocation: s.cfg.Shiprocket.PickupLocation,
	}
	cfg.Normalize()

	result, err := shiprocket.CreateOrder(ctx, cfg, buildShipmentInput(order, items))
	if err != nil {
		return nil, fmt.Errorf("push shipment for order %s: %w", order.OrderNo, err)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"shipment_id": result.ShipmentID,
		"awb_code":    result.AWBCode,
		"shipped_at":  &now,
		"updated_at":  now,
	}
	if err := s.orderRepo.UpdateStatus(order.ID, "", updates); err != nil {
		return nil, err
	}

	order.ShipmentID = result.ShipmentID
	order.AWBCode = result.AWBCode
	order.ShippedAt = &now
	logger.Infow("shipment pushed", "order_no", order.OrderNo, "shipment_id", result.ShipmentID)
	return order, nil
}

func (s *ShippingService) loadOrderItems(order *models.CheckoutOrder) ([]models.CartItem, error) {
	if order.CartID == nil || *order.CartID == 0 {
		return nil, nil
	}
	return s.cartRepo.ListItems(*order.CartID)
}

func buildShipmentInput(order *models.CheckoutOrder, items []models.CartItem) shiprocket.CreateOrderInput {
	lines := make([]shiprocket.OrderItem, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		lines = append(lines, shiprocket.OrderItem{
			SKU:       item.SKU,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.Decimal.StringFixed(2),
		})
	}

	billing := shiprocket.Address{
		FirstName: order.BillingFirstName,
		LastName:  order.BillingLastName,
		Address1:  order.BillingAddress1,
		Address2:  order.BillingAddress2,
		City:      order.BillingCity,
		State:     order.BillingState,
		Postcode:  order.BillingPostcode,
		Country:   order.BillingCountry,
		Email:     order.Email,
		Phone:     order.Phone,
	}
	shipping := billing
	if order.ShipToDifferent {
		shipping = shiprocket.Address{
			FirstName: order.ShippingFirstName,
			LastName:  order.ShippingLastName,
			Address1:  order.ShippingAddress1,
			Address2:  order.ShippingAddress2,
			City:      order.ShippingCity,
			State:     order.ShippingState,
			Postcode:  order.ShippingPostcode,
			Country:   order.ShippingCountry,
			Email:     order.Email,
			Phone:     order.Phone,
		}
	}

	paymentMethod := "Prepaid"
	if order.PaymentMethod == constants.PaymentMethodCOD {
		paymentMethod = "COD"
	}

	return shiprocket.CreateOrderInput{
		OrderNo:       order.OrderNo,
		OrderDate:     order.CreatedAt,
		Billing:       billing,
		Shipping:      shipping,
		SameAsBilling: !order.ShipToDifferent,
		Items:         lines,
		Subtotal:      order.SubtotalAmount.Decimal.StringFixed(2),
		PaymentMethod: paymentMethod,
	}
}

// isShippableStatus reports whether an order is ready to hand to the
// carrier. COD orders ship while still on hold.
func isShippableStatus(status string) bool {
	return status == constants.OrderStatusCompleted ||
		status == constants.OrderStatusOnHold
}
