package service

import (
	"time"

	"github.com/decalforge/decalforge/internal/config"
	"github.com/decalforge/decalforge/internal/constants"
	"github.com/decalforge/decalforge/internal/logger"
	"github.com/decalforge/decalforge/internal/models"
	"github.com/decalforge/decalforge/internal/payment/stripe"
	"github.com/decalforge/decalforge/internal/queue"
	"github.com/decalforge/decalforge/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StripeWebhookService settles orders from verified Stripe events.
// Event replays are harmless: a completed order is left alone.
type StripeWebhookService struct {
	cfg          *config.Config
	orderRepo    repository.OrderRepository
	stripeRepo   repository.StripePaymentRepository
	affiliateSvc *AffiliateService
	queueClient  *queue.Client
}

// NewStripeWebhookService creates a webhook service.
func NewStripeWebhookService(
	cfg *config.Config,
	orderRepo repository.OrderRepository,
	stripeRepo repository.StripePaymentRepository,
	affiliateSvc *AffiliateService,
	queueClient *queue.Client,
) *StripeWebhookService {
	return &StripeWebhookService{
		cfg:          cfg,
		orderRepo:    orderRepo,
		stripeRepo:   stripeRepo,
		affiliateSvc: affiliateSvc,
		queueClient:  queueClient,
	}
}

// HandleEvent verifies the webhook signature and applies the event to
// the order it names.
func (s *StripeWebhookService) HandleEvent(headers map[string]string, body []byte) error {
	cfg := &stripe.Config{
		SecretKey:     s.cfg.Stripe.SecretKey,
		WebhookSecret: s.cfg.Stripe.WebhookSecret,
		APIBaseURL:    s.cfg.Stripe.APIBaseURL,
	}
	cfg.Normalize()

	result, err := stripe.VerifyAndParseWebhook(cfg, headers, body, time.Now())
	if err != nil {
		return err
	}

	order, err := s.resolveOrder(result)
	if err != nil {
		return err
	}
	if order == nil {
		logger.Warnw("stripe event for unknown order",
			"event_id", result.EventID,
			"event_type", result.EventType,
			"session_id", result.SessionID)
		return nil
	}

	switch result.Status {
	case "success":
		return s.settlePaid(order, result)
	case "failed", "expired":
		return s.markFailed(order, result)
	default:
		logger.Debugw("ignoring stripe event",
			"event_type", result.EventType,
			"order_no", order.OrderNo)
		return nil
	}
}

func (s *StripeWebhookService) resolveOrder(result *stripe.WebhookResult) (*models.CheckoutOrder, error) {
	if result.OrderID != 0 {
		order, err := s.orderRepo.GetByID(result.OrderID)
		if err != nil || order != nil {
			return order, err
		}
	}
	if result.SessionID != "" {
		return s.orderRepo.GetByStripeSessionID(result.SessionID)
	}
	return nil, nil
}

func (s *StripeWebhookService) settlePaid(order *models.CheckoutOrder, result *stripe.WebhookResult) error {
	if order.Status == constants.OrderStatusCompleted {
		return nil
	}

	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		var locked models.CheckoutOrder
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&locked, order.ID).Error; err != nil {
			return err
		}
		if locked.Status == constants.OrderStatusCompleted {
			return nil
		}
		if !isTransitionAllowed(locked.Status, constants.OrderStatusCompleted) {
			logger.Warnw("stripe success event on non-payable order",
				"order_no", locked.OrderNo,
				"status", locked.Status)
			return nil
		}

		paidAt := time.Now()
		if result.PaidAt != nil {
			paidAt = *result.PaidAt
		}
		updates := map[string]interface{}{
			"status":     constants.OrderStatusCompleted,
			"paid_at":    &paidAt,
			"updated_at": time.Now(),
		}
		if result.PaymentIntentID != "" {
			updates["stripe_payment_intent_id"] = result.PaymentIntentID
		}
		if err := tx.Model(&models.CheckoutOrder{}).Where("id = ?", locked.ID).Updates(updates).Error; err != nil {
			return err
		}

		return s.affiliateSvc.HandleOrderCompletedTx(tx, locked.ID)
	})
	if err != nil {
		return err
	}

	s.updatePaymentRecord(result, constants.StripePaymentStatusCompleted)
	s.enqueueShipmentPush(order.ID)
	return nil
}

func (s *StripeWebhookService) markFailed(order *models.CheckoutOrder, result *stripe.WebhookResult) error {
	if order.Status != constants.OrderStatusPending {
		return nil
	}
	if err := s.orderRepo.UpdateStatus(order.ID, constants.OrderStatusFailed, nil); err != nil {
		return err
	}
	s.updatePaymentRecord(result, constants.StripePaymentStatusFailed)
	return nil
}

func (s *StripeWebhookService) updatePaymentRecord(result *stripe.WebhookResult, status string) {
	if result.SessionID == "" {
		return
	}
	payment, err := s.stripeRepo.GetBySessionID(result.SessionID)
	if err != nil || payment == nil {
		return
	}
	updates := map[string]interface{}{}
	if result.PaymentIntentID != "" {
		updates["payment_intent_id"] = result.PaymentIntentID
	}
	if err := s.stripeRepo.UpdateStatus(payment.ID, status, updates); err != nil {
		logger.Warnw("update stripe payment record", "session_id", result.SessionID, "error", err)
	}
}

func (s *StripeWebhookService) enqueueShipmentPush(orderID uint) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	if err := s.queueClient.EnqueueShipmentPush(queue.ShipmentPushPayload{OrderID: orderID}); err != nil {
		logger.Warnw("enqueue shipment push", "order_id", orderID, "error", err)
	}
}
