package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/decalforge/decalforge/internal/constants"
	"github.com/decalforge/decalforge/internal/models"

	"github.com/shopspring/decimal"
)

func money(t *testing.T, value string) models.Money {
	t.Helper()
	return models.NewMoneyFromDecimal(decimal.RequireFromString(value))
}

func TestRefundPartialThenFull(t *testing.T) {
	env := setupServiceTest(t)
	affiliate := seedAffiliate(t, env, "PARTNER")
	order := seedOrder(t, env, &models.CheckoutOrder{
		Status:        constants.OrderStatusCompleted,
		PaymentMethod: constants.PaymentMethodCOD,
		TotalAmount:   money(t, "100.00"),
	})
	commission := seedCommission(t, env, affiliate.ID, order.ID, "10.00", constants.AffiliateCommissionStatusEarned)

	updated, err := env.refunds.Refund(context.Background(), order.ID, "40", "damaged print")
	if err != nil {
		t.Fatalf("partial refund failed: %v", err)
	}
	if updated.Status != constants.OrderStatusPartiallyRefunded {
		t.Fatalf("status want partially_refunded got %s", updated.Status)
	}
	assertMoney(t, "refunded", updated.RefundedAmount, "40.00")

	// 40% of the remaining balance refunded shrinks the commission by 40%.
	shrunk := reloadCommission(t, env, commission.ID)
	if shrunk.Status != constants.AffiliateCommissionStatusEarned {
		t.Fatalf("commission status want earned got %s", shrunk.Status)
	}
	assertMoney(t, "commission", shrunk.CommissionAmount, "6.00")
	assertMoney(t, "earnings", reloadAffiliate(t, env, affiliate.ID).TotalEarnings, "6.00")

	updated, err = env.refunds.Refund(context.Background(), order.ID, "60", "")
	if err != nil {
		t.Fatalf("final refund failed: %v", err)
	}
	if updated.Status != constants.OrderStatusRefunded {
		t.Fatalf("status want refunded got %s", updated.Status)
	}
	assertMoney(t, "refunded", updated.RefundedAmount, "100.00")

	reversed := reloadCommission(t, env, commission.ID)
	if reversed.Status != constants.AffiliateCommissionStatusReversed {
		t.Fatalf("commission status want reversed got %s", reversed.Status)
	}
	assertMoney(t, "commission", reversed.CommissionAmount, "0")
	assertMoney(t, "earnings", reloadAffiliate(t, env, affiliate.ID).TotalEarnings, "0")

	if _, err := env.refunds.Refund(context.Background(), order.ID, "1", ""); !errors.Is(err, ErrOrderNotRefundable) {
		t.Fatalf("want ErrOrderNotRefundable got %v", err)
	}
}

func TestRefundExceedsRemaining(t *testing.T) {
	env := setupServiceTest(t)
	order := seedOrder(t, env, &models.CheckoutOrder{
		Status:         constants.OrderStatusPartiallyRefunded,
		PaymentMethod:  constants.PaymentMethodCOD,
		TotalAmount:    money(t, "100.00"),
		RefundedAmount: money(t, "40.00"),
	})

	if _, err := env.refunds.Refund(context.Background(), order.ID, "70", ""); !errors.Is(err, ErrRefundExceedsRemaining) {
		t.Fatalf("want ErrRefundExceedsRemaining got %v", err)
	}
}

func TestRefundInvalidAmount(t *testing.T) {
	env := setupServiceTest(t)
	order := seedOrder(t, env, &models.CheckoutOrder{
		Status:        constants.OrderStatusCompleted,
		PaymentMethod: constants.PaymentMethodCOD,
		TotalAmount:   money(t, "50.00"),
	})

	for _, raw := range []string{"-5", "0", "abc", ""} {
		if _, err := env.refunds.Refund(context.Background(), order.ID, raw, ""); !errors.Is(err, ErrRefundAmountInvalid) {
			t.Fatalf("amount %q want ErrRefundAmountInvalid got %v", raw, err)
		}
	}
}

func TestRefundWrongStatus(t *testing.T) {
	env := setupServiceTest(t)
	order := seedOrder(t, env, &models.CheckoutOrder{
		Status:        constants.OrderStatusPending,
		PaymentMethod: constants.PaymentMethodCOD,
		TotalAmount:   money(t, "50.00"),
	})

	if _, err := env.refunds.Refund(context.Background(), order.ID, "10", ""); !errors.Is(err, ErrOrderNotRefundable) {
		t.Fatalf("want ErrOrderNotRefundable got %v", err)
	}
	if _, err := env.refunds.Refund(context.Background(), 9999, "10", ""); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("want ErrOrderNotFound got %v", err)
	}
}

func TestRefundStripeWithoutPaymentIntent(t *testing.T) {
	env := setupServiceTest(t)
	order := seedOrder(t, env, &models.CheckoutOrder{
		Status:        constants.OrderStatusCompleted,
		PaymentMethod: constants.PaymentMethodStripe,
		TotalAmount:   money(t, "25.00"),
	})

	if _, err := env.refunds.Refund(context.Background(), order.ID, "10", ""); !errors.Is(err, ErrPaymentGateway) {
		t.Fatalf("want ErrPaymentGateway got %v", err)
	}
}

func TestRefundPaypalResolvesCapture(t *testing.T) {
	env := setupServiceTest(t)

	var refunded bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v1/oauth2/token":
			fmt.Fprint(w, `{"access_token":"test-token"}`)
		case r.URL.Path == "/v2/checkout/orders/PP-9":
			fmt.Fprint(w, `{
				"id": "PP-9",
				"status": "COMPLETED",
				"purchase_units": [{
					"payments": {"captures": [{
						"id": "CAP-9",
						"status": "COMPLETED",
						"amount": {"value": "20.00", "currency_code": "USD"}
					}]}
				}]
			}`)
		case r.URL.Path == "/v2/payments/captures/CAP-9/refund":
			refunded = true
			fmt.Fprint(w, `{"id":"REF-1","status":"COMPLETED"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()
	env.cfg.Paypal.ClientID = "client"
	env.cfg.Paypal.Secret = "secret"
	env.cfg.Paypal.APIBaseURL = server.URL

	order := seedOrder(t, env, &models.CheckoutOrder{
		Status:        constants.OrderStatusCompleted,
		PaymentMethod: constants.PaymentMethodPaypal,
		TotalAmount:   money(t, "20.00"),
		PaypalOrderID: "PP-9",
	})

	updated, err := env.refunds.Refund(context.Background(), order.ID, "20", "")
	if err != nil {
		t.Fatalf("refund failed: %v", err)
	}
	if !refunded {
		t.Fatalf("expected the capture refund endpoint to be hit")
	}
	if updated.Status != constants.OrderStatusRefunded {
		t.Fatalf("status want refunded got %s", updated.Status)
	}
	// The capture resolved from the PayPal order sticks to the record.
	if updated.PaypalCaptureID != "CAP-9" {
		t.Fatalf("capture id want CAP-9 got %s", updated.PaypalCaptureID)
	}
}

func TestCancelReversesEarnedCommission(t *testing.T) {
	env := setupServiceTest(t)
	affiliate := seedAffiliate(t, env, "PARTNER")
	order := seedOrder(t, env, &models.CheckoutOrder{
		Status:        constants.OrderStatusCompleted,
		PaymentMethod: constants.PaymentMethodCOD,
		TotalAmount:   money(t, "30.00"),
	})
	commission := seedCommission(t, env, affiliate.ID, order.ID, "3.00", constants.AffiliateCommissionStatusEarned)

	updated, err := env.refunds.Cancel(context.Background(), order.ID, "customer request")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if updated.Status != constants.OrderStatusCancelled {
		t.Fatalf("status want cancelled got %s", updated.Status)
	}
	if updated.CancelledAt == nil {
		t.Fatalf("expected cancelled_at to be set")
	}

	reversed := reloadCommission(t, env, commission.ID)
	if reversed.Status != constants.AffiliateCommissionStatusReversed {
		t.Fatalf("commission status want reversed got %s", reversed.Status)
	}
	if reversed.ReversalReason != "customer request" {
		t.Fatalf("reversal reason want customer request got %s", reversed.ReversalReason)
	}
	assertMoney(t, "earnings", reloadAffiliate(t, env, affiliate.ID).TotalEarnings, "0")

	if _, err := env.refunds.Cancel(context.Background(), order.ID, ""); !errors.Is(err, ErrOrderNotCancellable) {
		t.Fatalf("want ErrOrderNotCancellable got %v", err)
	}
}

func TestCancelRefundsPaidStripeOrder(t *testing.T) {
	env := setupServiceTest(t)
	affiliate := seedAffiliate(t, env, "PARTNER")

	var refundHits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/refunds" {
			atomic.AddInt32(&refundHits, 1)
			fmt.Fprint(w, `{"id":"re_1","status":"succeeded"}`)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()
	env.cfg.Stripe.SecretKey = "sk_test_123"
	env.cfg.Stripe.APIBaseURL = server.URL

	order := seedOrder(t, env, &models.CheckoutOrder{
		Status:                constants.OrderStatusCompleted,
		PaymentMethod:         constants.PaymentMethodStripe,
		TotalAmount:           money(t, "100.00"),
		StripePaymentIntentID: "pi_1",
	})
	commission := seedCommission(t, env, affiliate.ID, order.ID, "10.00", constants.AffiliateCommissionStatusEarned)

	updated, err := env.refunds.Cancel(context.Background(), order.ID, "fraud")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if hits := atomic.LoadInt32(&refundHits); hits != 1 {
		t.Fatalf("stripe refund hits want 1 got %d", hits)
	}
	if updated.Status != constants.OrderStatusCancelled {
		t.Fatalf("status want cancelled got %s", updated.Status)
	}
	if updated.CancelledAt == nil {
		t.Fatalf("expected cancelled_at to be set")
	}
	// The full captured amount went back to the customer.
	assertMoney(t, "refunded", updated.RefundedAmount, "100.00")

	reversed := reloadCommission(t, env, commission.ID)
	if reversed.Status != constants.AffiliateCommissionStatusReversed {
		t.Fatalf("commission status want reversed got %s", reversed.Status)
	}
	assertMoney(t, "earnings", reloadAffiliate(t, env, affiliate.ID).TotalEarnings, "0")
}

func TestCancelPaidOrderKeepsStatusOnGatewayFailure(t *testing.T) {
	env := setupServiceTest(t)
	order := seedOrder(t, env, &models.CheckoutOrder{
		Status:        constants.OrderStatusCompleted,
		PaymentMethod: constants.PaymentMethodStripe,
		TotalAmount:   money(t, "100.00"),
	})

	// No payment intent and no Stripe config, so the refund leg fails
	// and the order must not be voided.
	if _, err := env.refunds.Cancel(context.Background(), order.ID, ""); !errors.Is(err, ErrPaymentGateway) {
		t.Fatalf("want ErrPaymentGateway got %v", err)
	}

	reloaded := reloadOrder(t, env, order.ID)
	if reloaded.Status != constants.OrderStatusCompleted {
		t.Fatalf("status want completed got %s", reloaded.Status)
	}
	assertMoney(t, "refunded", reloaded.RefundedAmount, "0")
}

func TestCancelRefundedOrder(t *testing.T) {
	env := setupServiceTest(t)
	order := seedOrder(t, env, &models.CheckoutOrder{
		Status:         constants.OrderStatusRefunded,
		PaymentMethod:  constants.PaymentMethodCOD,
		TotalAmount:    money(t, "10.00"),
		RefundedAmount: money(t, "10.00"),
	})

	if _, err := env.refunds.Cancel(context.Background(), order.ID, ""); !errors.Is(err, ErrOrderNotCancellable) {
		t.Fatalf("want ErrOrderNotCancellable got %v", err)
	}
}
