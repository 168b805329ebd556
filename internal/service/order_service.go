package service

import (
	"strings"

	"github.com/decalforge/decalforge/internal/models"
	"github.com/decalforge/decalforge/internal/repository"
)

// OrderService answers order queries for the storefront tracker and
// the back office.
type OrderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
}

// NewOrderService creates an order query service.
func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
	}
}

// TrackOrder is the public lookup: order number plus the email it was
// placed with.
func (s *OrderService) TrackOrder(orderNo, email string) (*models.CheckoutOrder, error) {
	if strings.TrimSpace(orderNo) == "" || strings.TrimSpace(email) == "" {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByOrderNoAndEmail(orderNo, email)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	s.fillItems(order)
	return order, nil
}

// ListAdmin returns a filtered order page for the back office.
func (s *OrderService) ListAdmin(filter repository.OrderListFilter) ([]models.CheckoutOrder, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// GetAdmin returns one order with its lines.
func (s *OrderService) GetAdmin(orderID uint) (*models.CheckoutOrder, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	s.fillItems(order)
	return order, nil
}

// PaymentReport aggregates orders by payment method and status.
func (s *OrderService) PaymentReport(filter repository.PaymentReportFilter) ([]repository.PaymentReportRow, error) {
	return s.orderRepo.PaymentReport(filter)
}

// fillItems loads the order lines from the originating cart. Missing
// carts leave the order without lines rather than failing the read.
func (s *OrderService) fillItems(order *models.CheckoutOrder) {
	if order == nil || order.CartID == nil || *order.CartID == 0 {
		return
	}
	items, err := s.cartRepo.ListItems(*order.CartID)
	if err != nil {
		return
	}
	order.Items = items
}
