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
)

func seedShippableOrder(t *testing.T, env *serviceTestEnv, status string) *models.CheckoutOrder {
	t.Helper()
	product := seedProduct(t, env, "vinyl-decal", "10.00", true)
	cart := seedCart(t, env, "shipping-cart")
	seedCartItem(t, env, cart, product, 2)
	return seedOrder(t, env, &models.CheckoutOrder{
		Status:           status,
		PaymentMethod:    constants.PaymentMethodCOD,
		TotalAmount:      money(t, "25.00"),
		SubtotalAmount:   money(t, "20.00"),
		CartID:           &cart.ID,
		Phone:            "+1 555 0100",
		BillingFirstName: "Ada",
		BillingLastName:  "Lovelace",
		BillingAddress1:  "1 Analytical Way",
		BillingCity:      "London",
		BillingState:     "LDN",
		BillingPostcode:  "E1 6AN",
		BillingCountry:   "GB",
	})
}

func shiprocketTestServer(t *testing.T, createHits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/external/auth/login":
			fmt.Fprint(w, `{"token":"test-token"}`)
		case "/v1/external/orders/create/adhoc":
			atomic.AddInt32(createHits, 1)
			fmt.Fprint(w, `{"order_id":"SR-100","shipment_id":"SH-1","awb_code":"AWB-1","status":"NEW"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestPushShipmentCreatesShiprocketOrder(t *testing.T) {
	env := setupServiceTest(t)

	var createHits int32
	server := shiprocketTestServer(t, &createHits)
	defer server.Close()
	env.cfg.Shiprocket.Email = "ship@example.com"
	env.cfg.Shiprocket.Password = "secret"
	env.cfg.Shiprocket.APIBaseURL = server.URL

	order := seedShippableOrder(t, env, constants.OrderStatusOnHold)

	pushed, err := env.shipping.PushShipment(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("push shipment failed: %v", err)
	}
	if pushed.ShipmentID != "SH-1" {
		t.Fatalf("shipment id want SH-1 got %s", pushed.ShipmentID)
	}
	if pushed.AWBCode != "AWB-1" {
		t.Fatalf("awb want AWB-1 got %s", pushed.AWBCode)
	}
	if pushed.ShippedAt == nil {
		t.Fatalf("expected shipped_at to be set")
	}

	// A second push sees the stored shipment id and skips the carrier.
	again, err := env.shipping.PushShipment(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("second push failed: %v", err)
	}
	if again.ShipmentID != "SH-1" {
		t.Fatalf("shipment id changed on repush: %s", again.ShipmentID)
	}
	if hits := atomic.LoadInt32(&createHits); hits != 1 {
		t.Fatalf("create endpoint hits want 1 got %d", hits)
	}
}

func TestPushShipmentSkipsPresetShipment(t *testing.T) {
	env := setupServiceTest(t)
	order := seedOrder(t, env, &models.CheckoutOrder{
		Status:        constants.OrderStatusCompleted,
		PaymentMethod: constants.PaymentMethodStripe,
		TotalAmount:   money(t, "25.00"),
		ShipmentID:    "SH-EXISTING",
	})

	// No Shiprocket config needed when nothing leaves the process.
	pushed, err := env.shipping.PushShipment(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("push shipment failed: %v", err)
	}
	if pushed.ShipmentID != "SH-EXISTING" {
		t.Fatalf("shipment id want SH-EXISTING got %s", pushed.ShipmentID)
	}
}

func TestPushShipmentWrongStatus(t *testing.T) {
	env := setupServiceTest(t)
	order := seedShippableOrder(t, env, constants.OrderStatusPending)

	if _, err := env.shipping.PushShipment(context.Background(), order.ID); !errors.Is(err, ErrOrderNotShippable) {
		t.Fatalf("want ErrOrderNotShippable got %v", err)
	}
	if _, err := env.shipping.PushShipment(context.Background(), 9999); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("want ErrOrderNotFound got %v", err)
	}
}

func TestPushShipmentWithoutItems(t *testing.T) {
	env := setupServiceTest(t)
	order := seedOrder(t, env, &models.CheckoutOrder{
		Status:        constants.OrderStatusCompleted,
		PaymentMethod: constants.PaymentMethodStripe,
		TotalAmount:   money(t, "25.00"),
	})

	if _, err := env.shipping.PushShipment(context.Background(), order.ID); !errors.Is(err, ErrOrderNotShippable) {
		t.Fatalf("want ErrOrderNotShippable got %v", err)
	}
}
