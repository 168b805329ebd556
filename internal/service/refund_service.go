package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/decalforge/decalforge/internal/config"
	"github.com/decalforge/decalforge/internal/constants"
	"github.com/decalforge/decalforge/internal/models"
	"github.com/decalforge/decalforge/internal/payment/paypal"
	"github.com/decalforge/decalforge/internal/payment/stripe"
	"github.com/decalforge/decalforge/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RefundService drives the admin refund and cancellation flows. Money
// moves at the gateway first; the ledger then settles inside a locked
// transaction.
type RefundService struct {
	cfg          *config.Config
	orderRepo    repository.OrderRepository
	stripeRepo   repository.StripePaymentRepository
	affiliateSvc *AffiliateService
}

// NewRefundService creates a refund service.
func NewRefundService(cfg *config.Config, orderRepo repository.OrderRepository, stripeRepo repository.StripePaymentRepository, affiliateSvc *AffiliateService) *RefundService {
	return &RefundService{
		cfg:          cfg,
		orderRepo:    orderRepo,
		stripeRepo:   stripeRepo,
		affiliateSvc: affiliateSvc,
	}
}

// Refund refunds part or all of a paid order. The order moves to
// partially_refunded until the cumulative refunds reach the total.
func (s *RefundService) Refund(ctx context.Context, orderID uint, rawAmount, reason string) (*models.CheckoutOrder, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(rawAmount))
	if err != nil || !amount.Round(2).IsPositive() {
		return nil, ErrRefundAmountInvalid
	}
	amount = amount.Round(2)

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !isRefundableStatus(order.Status) {
		return nil, ErrOrderNotRefundable
	}
	if amount.GreaterThan(order.RemainingRefundable().Decimal) {
		return nil, ErrRefundExceedsRemaining
	}

	// The gateway is paid out before the transaction so a database
	// failure never strands money the shop no longer holds.
	if err := s.refundAtGateway(ctx, order, amount); err != nil {
		return nil, err
	}

	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		var locked models.CheckoutOrder
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&locked, order.ID).Error; err != nil {
			return err
		}
		if !isRefundableStatus(locked.Status) {
			return ErrOrderNotRefundable
		}

		refundedBefore := locked.RefundedAmount.Decimal.Round(2)
		remaining := locked.TotalAmount.Decimal.Sub(refundedBefore).Round(2)
		if amount.GreaterThan(remaining) {
			return ErrRefundExceedsRemaining
		}

		refundedAfter := refundedBefore.Add(amount).Round(2)
		nextStatus := constants.OrderStatusPartiallyRefunded
		if refundedAfter.GreaterThanOrEqual(locked.TotalAmount.Decimal.Round(2)) {
			nextStatus = constants.OrderStatusRefunded
		}
		if !isTransitionAllowed(locked.Status, nextStatus) {
			return ErrOrderNotRefundable
		}

		updates := map[string]interface{}{
			"refunded_amount": models.NewMoneyFromDecimal(refundedAfter),
			"status":          nextStatus,
			"updated_at":      time.Now(),
		}
		if order.PaypalCaptureID != "" && locked.PaypalCaptureID == "" {
			updates["paypal_capture_id"] = order.PaypalCaptureID
		}
		if err := tx.Model(&models.CheckoutOrder{}).Where("id = ?", locked.ID).Updates(updates).Error; err != nil {
			return err
		}

		return s.affiliateSvc.HandleOrderRefundedTx(tx, &locked, amount, refundedBefore, reason)
	})
	if err != nil {
		return nil, err
	}

	return s.orderRepo.GetByID(order.ID)
}

// Cancel voids an order and reverses its commissions. A captured
// stripe or paypal payment is refunded in full before the order is
// voided; COD never moved money and cancels directly.
func (s *RefundService) Cancel(ctx context.Context, orderID uint, reason string) (*models.CheckoutOrder, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !isCancellable(order) {
		return nil, ErrOrderNotCancellable
	}

	// After a refund leg the locked row must read refunded; otherwise
	// the status must not have moved under us.
	expectedStatus := order.Status
	if cancelNeedsRefund(order) {
		remaining := order.RemainingRefundable().Decimal.Round(2)
		if remaining.IsPositive() {
			if _, err := s.Refund(ctx, orderID, remaining.StringFixed(2), cancelReason(reason)); err != nil {
				return nil, err
			}
			expectedStatus = constants.OrderStatusRefunded
		}
	}

	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		var locked models.CheckoutOrder
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&locked, order.ID).Error; err != nil {
			return err
		}
		if locked.Status != expectedStatus {
			return ErrOrderNotCancellable
		}
		if !isTransitionAllowed(locked.Status, constants.OrderStatusCancelled) {
			return ErrOrderNotCancellable
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":       constants.OrderStatusCancelled,
			"cancelled_at": &now,
			"updated_at":   now,
		}
		if err := tx.Model(&models.CheckoutOrder{}).Where("id = ?", locked.ID).Updates(updates).Error; err != nil {
			return err
		}

		return s.affiliateSvc.HandleOrderCancelledTx(tx, locked.ID, reason)
	})
	if err != nil {
		return nil, err
	}

	return s.orderRepo.GetByID(order.ID)
}

func cancelReason(reason string) string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "order_cancelled"
	}
	return reason
}

// refundAtGateway pushes the refund to the order's payment provider.
// COD orders have no gateway leg.
func (s *RefundService) refundAtGateway(ctx context.Context, order *models.CheckoutOrder, amount decimal.Decimal) error {
	switch order.PaymentMethod {
	case constants.PaymentMethodStripe:
		return s.refundStripe(ctx, order, amount)
	case constants.PaymentMethodPaypal:
		return s.refundPaypal(ctx, order, amount)
	case constants.PaymentMethodCOD:
		return nil
	default:
		return ErrPaymentMethodInvalid
	}
}

func (s *RefundService) refundStripe(ctx context.Context, order *models.CheckoutOrder, amount decimal.Decimal) error {
	paymentIntentID := strings.TrimSpace(order.StripePaymentIntentID)
	if paymentIntentID == "" {
		payment, err := s.stripeRepo.GetByOrderID(order.ID)
		if err != nil {
			return err
		}
		if payment != nil {
			paymentIntentID = strings.TrimSpace(payment.PaymentIntentID)
		}
	}
	if paymentIntentID == "" {
		return fmt.Errorf("%w: order %s has no payment intent", ErrPaymentGateway, order.OrderNo)
	}

	cfg := &stripe.Config{
		SecretKey:  s.cfg.Stripe.SecretKey,
		APIBaseURL: s.cfg.Stripe.APIBaseURL,
	}
	cfg.Normalize()
	if _, err := stripe.CreateRefund(ctx, cfg, paymentIntentID, amount.StringFixed(2), s.cfg.Shipping.Currency); err != nil {
		return fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}
	return nil
}

// refundPaypal resolves the capture behind the stored PayPal order when
// the capture id was never recorded, then refunds against it.
func (s *RefundService) refundPaypal(ctx context.Context, order *models.CheckoutOrder, amount decimal.Decimal) error {
	cfg := &paypal.Config{
		ClientID:     s.cfg.Paypal.ClientID,
		ClientSecret: s.cfg.Paypal.Secret,
		BaseURL:      s.cfg.Paypal.APIBaseURL,
	}

	captureID := strings.TrimSpace(order.PaypalCaptureID)
	if captureID == "" {
		if strings.TrimSpace(order.PaypalOrderID) == "" {
			return fmt.Errorf("%w: order %s has no paypal reference", ErrPaymentGateway, order.OrderNo)
		}
		detail, err := paypal.GetOrder(ctx, cfg, order.PaypalOrderID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPaymentGateway, err)
		}
		if detail.CaptureID == "" {
			return fmt.Errorf("%w: paypal order %s has no capture", ErrPaymentGateway, order.PaypalOrderID)
		}
		captureID = detail.CaptureID
		order.PaypalCaptureID = captureID
	}

	note := fmt.Sprintf("Refund for order %s", order.OrderNo)
	if _, err := paypal.RefundCapture(ctx, cfg, captureID, amount.StringFixed(2), s.cfg.Shipping.Currency, note); err != nil {
		return fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}
	return nil
}
