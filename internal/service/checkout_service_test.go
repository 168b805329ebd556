package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/decalforge/decalforge/internal/constants"
	"github.com/decalforge/decalforge/internal/models"

	"github.com/shopspring/decimal"
)

func checkoutInput(token, method string) CheckoutInput {
	return CheckoutInput{
		CartToken: token,
		Email:     "buyer@example.com",
		Phone:     "+1 555 0100",
		Billing: CheckoutAddress{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Address1:  "1 Analytical Way",
			City:      "London",
			State:     "LDN",
			Postcode:  "E1 6AN",
			Country:   "GB",
		},
		PaymentMethod: method,
	}
}

func TestCheckoutCODPlacesOnHoldOrder(t *testing.T) {
	env := setupServiceTest(t)
	product := seedProduct(t, env, "vinyl-decal", "10.00", true)
	affiliate := seedAffiliate(t, env, "PARTNER")

	view, err := env.carts.AddItem("", product.ID, 5)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	input := checkoutInput(view.Token, constants.PaymentMethodCOD)
	input.AffiliateCode = "partner"
	result, err := env.checkout.Checkout(context.Background(), input)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	order := result.Order
	if order.Status != constants.OrderStatusOnHold {
		t.Fatalf("status want on-hold got %s", order.Status)
	}
	assertMoney(t, "subtotal", order.SubtotalAmount, "40.00")
	assertMoney(t, "shipping", order.ShippingAmount, "5.00")
	assertMoney(t, "total", order.TotalAmount, "45.00")
	if order.AffiliateCode != "PARTNER" {
		t.Fatalf("affiliate code want PARTNER got %s", order.AffiliateCode)
	}
	if result.NewCartToken == "" || result.NewCartToken == view.Token {
		t.Fatalf("expected a rotated cart token")
	}
	if result.RedirectURL != "" {
		t.Fatalf("cod checkout must not redirect, got %s", result.RedirectURL)
	}

	// COD commissions wait on-hold and pay nothing out yet.
	var commission models.AffiliateCommission
	if err := env.db.Where("order_id = ?", order.ID).First(&commission).Error; err != nil {
		t.Fatalf("load commission failed: %v", err)
	}
	if commission.Status != constants.AffiliateCommissionStatusOnHold {
		t.Fatalf("commission status want on-hold got %s", commission.Status)
	}
	assertMoney(t, "commission", commission.CommissionAmount, "4.50")
	assertMoney(t, "earnings", reloadAffiliate(t, env, affiliate.ID).TotalEarnings, "0")
}

func TestCheckoutRejectsBadInput(t *testing.T) {
	env := setupServiceTest(t)
	product := seedProduct(t, env, "sticker-pack", "4.00", true)
	view, err := env.carts.AddItem("", product.ID, 1)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	input := checkoutInput(view.Token, constants.PaymentMethodCOD)
	input.Email = "  "
	if _, err := env.checkout.Checkout(context.Background(), input); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials got %v", err)
	}

	input = checkoutInput(view.Token, "wire-transfer")
	if _, err := env.checkout.Checkout(context.Background(), input); !errors.Is(err, ErrPaymentMethodInvalid) {
		t.Fatalf("want ErrPaymentMethodInvalid got %v", err)
	}

	input = checkoutInput("unknown-token", constants.PaymentMethodCOD)
	if _, err := env.checkout.Checkout(context.Background(), input); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("want ErrCartNotFound got %v", err)
	}
}

func TestCheckoutRejectsIncompleteBilling(t *testing.T) {
	env := setupServiceTest(t)
	product := seedProduct(t, env, "sticker-pack", "4.00", true)
	view, err := env.carts.AddItem("", product.ID, 1)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	input := checkoutInput(view.Token, constants.PaymentMethodCOD)
	input.Billing = CheckoutAddress{}
	if _, err := env.checkout.Checkout(context.Background(), input); !errors.Is(err, ErrBillingIncomplete) {
		t.Fatalf("empty billing want ErrBillingIncomplete got %v", err)
	}

	input = checkoutInput(view.Token, constants.PaymentMethodCOD)
	input.Billing.Postcode = ""
	if _, err := env.checkout.Checkout(context.Background(), input); !errors.Is(err, ErrBillingIncomplete) {
		t.Fatalf("missing postcode want ErrBillingIncomplete got %v", err)
	}

	input = checkoutInput(view.Token, constants.PaymentMethodCOD)
	input.ShipToDifferent = true
	if _, err := env.checkout.Checkout(context.Background(), input); !errors.Is(err, ErrBillingIncomplete) {
		t.Fatalf("empty shipping address want ErrBillingIncomplete got %v", err)
	}

	var count int64
	if err := env.db.Model(&models.CheckoutOrder{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("orders want 0 got %d", count)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	env := setupServiceTest(t)
	cart := seedCart(t, env, "empty-cart")

	input := checkoutInput(cart.Token, constants.PaymentMethodCOD)
	if _, err := env.checkout.Checkout(context.Background(), input); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("want ErrCartEmpty got %v", err)
	}
}

func TestCheckoutExpectedTotalMismatch(t *testing.T) {
	env := setupServiceTest(t)
	product := seedProduct(t, env, "bumper-decal", "14.50", true)
	view, err := env.carts.AddItem("", product.ID, 1)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	input := checkoutInput(view.Token, constants.PaymentMethodCOD)
	input.ExpectedTotal = "1.00"
	if _, err := env.checkout.Checkout(context.Background(), input); !errors.Is(err, ErrTotalsMismatch) {
		t.Fatalf("want ErrTotalsMismatch got %v", err)
	}
}

func TestCheckoutConsumesDiscountCode(t *testing.T) {
	env := setupServiceTest(t)
	product := seedProduct(t, env, "laptop-skin", "10.00", true)
	code := &models.DiscountCode{
		Code:       "ONCE10",
		Type:       constants.DiscountTypePercent,
		Value:      models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		UsageLimit: 1,
		IsActive:   true,
	}
	if err := env.db.Create(code).Error; err != nil {
		t.Fatalf("seed code failed: %v", err)
	}

	view, err := env.carts.AddItem("", product.ID, 1)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if _, err := env.carts.ApplyDiscountCode(view.Token, "ONCE10"); err != nil {
		t.Fatalf("apply code failed: %v", err)
	}

	result, err := env.checkout.Checkout(context.Background(), checkoutInput(view.Token, constants.PaymentMethodCOD))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	assertMoney(t, "total", result.Order.TotalAmount, "14.00")

	var reloaded models.DiscountCode
	if err := env.db.First(&reloaded, code.ID).Error; err != nil {
		t.Fatalf("reload code failed: %v", err)
	}
	if reloaded.UsedCount != 1 {
		t.Fatalf("used count want 1 got %d", reloaded.UsedCount)
	}
}

func TestCheckoutPaypalCompletesOrder(t *testing.T) {
	env := setupServiceTest(t)
	product := seedProduct(t, env, "vinyl-decal", "10.00", true)
	affiliate := seedAffiliate(t, env, "PARTNER")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v1/oauth2/token":
			fmt.Fprint(w, `{"access_token":"test-token"}`)
		case r.URL.Path == "/v2/checkout/orders/PP-1":
			fmt.Fprint(w, `{
				"id": "PP-1",
				"status": "COMPLETED",
				"purchase_units": [{
					"payments": {"captures": [{
						"id": "CAP-1",
						"status": "COMPLETED",
						"amount": {"value": "15.00", "currency_code": "USD"}
					}]}
				}]
			}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()
	env.cfg.Paypal.ClientID = "client"
	env.cfg.Paypal.Secret = "secret"
	env.cfg.Paypal.APIBaseURL = server.URL

	view, err := env.carts.AddItem("", product.ID, 1)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	input := checkoutInput(view.Token, constants.PaymentMethodPaypal)
	input.AffiliateCode = "PARTNER"
	input.PaypalOrderID = "PP-1"
	result, err := env.checkout.Checkout(context.Background(), input)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	order := result.Order
	if order.Status != constants.OrderStatusCompleted {
		t.Fatalf("status want completed got %s", order.Status)
	}
	if order.PaypalCaptureID != "CAP-1" {
		t.Fatalf("capture id want CAP-1 got %s", order.PaypalCaptureID)
	}
	if order.PaidAt == nil {
		t.Fatalf("expected paid_at to be set")
	}

	// Captured payment settles the commission immediately.
	var commission models.AffiliateCommission
	if err := env.db.Where("order_id = ?", order.ID).First(&commission).Error; err != nil {
		t.Fatalf("load commission failed: %v", err)
	}
	if commission.Status != constants.AffiliateCommissionStatusEarned {
		t.Fatalf("commission status want earned got %s", commission.Status)
	}
	assertMoney(t, "commission", commission.CommissionAmount, "1.50")
	assertMoney(t, "earnings", reloadAffiliate(t, env, affiliate.ID).TotalEarnings, "1.50")
}

func TestCheckoutPaypalAmountMismatch(t *testing.T) {
	env := setupServiceTest(t)
	product := seedProduct(t, env, "vinyl-decal", "10.00", true)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v1/oauth2/token":
			fmt.Fprint(w, `{"access_token":"test-token"}`)
		case r.URL.Path == "/v2/checkout/orders/PP-2":
			fmt.Fprint(w, `{
				"id": "PP-2",
				"status": "COMPLETED",
				"purchase_units": [{
					"payments": {"captures": [{
						"id": "CAP-2",
						"status": "COMPLETED",
						"amount": {"value": "9.99", "currency_code": "USD"}
					}]}
				}]
			}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()
	env.cfg.Paypal.ClientID = "client"
	env.cfg.Paypal.Secret = "secret"
	env.cfg.Paypal.APIBaseURL = server.URL

	view, err := env.carts.AddItem("", product.ID, 1)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	input := checkoutInput(view.Token, constants.PaymentMethodPaypal)
	input.PaypalOrderID = "PP-2"
	if _, err := env.checkout.Checkout(context.Background(), input); !errors.Is(err, ErrTotalsMismatch) {
		t.Fatalf("want ErrTotalsMismatch got %v", err)
	}

	// Nothing may be written when the capture amount disagrees.
	var count int64
	if err := env.db.Model(&models.CheckoutOrder{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("orders want 0 got %d", count)
	}
}
