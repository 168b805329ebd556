package service

import (
	"errors"
	"testing"

	"github.com/decalforge/decalforge/internal/constants"
	"github.com/decalforge/decalforge/internal/models"
	"github.com/decalforge/decalforge/internal/repository"

	"github.com/shopspring/decimal"
)

func TestTrackOrderLoadsItems(t *testing.T) {
	env := setupServiceTest(t)
	product := seedProduct(t, env, "vinyl-decal", "10.00", true)
	cart := seedCart(t, env, "tracked-cart")
	seedCartItem(t, env, cart, product, 3)
	order := seedOrder(t, env, &models.CheckoutOrder{
		OrderNo:       "DF-TRACK-1",
		Email:         "buyer@example.com",
		Status:        constants.OrderStatusCompleted,
		PaymentMethod: constants.PaymentMethodStripe,
		TotalAmount:   money(t, "32.00"),
		CartID:        &cart.ID,
	})

	found, err := env.orders.TrackOrder(order.OrderNo, "buyer@example.com")
	if err != nil {
		t.Fatalf("track order failed: %v", err)
	}
	if found.ID != order.ID {
		t.Fatalf("order id want %d got %d", order.ID, found.ID)
	}
	if len(found.Items) != 1 || found.Items[0].Quantity != 3 {
		t.Fatalf("expected the cart lines on the tracked order, got %+v", found.Items)
	}
}

func TestTrackOrderRequiresMatchingEmail(t *testing.T) {
	env := setupServiceTest(t)
	order := seedOrder(t, env, &models.CheckoutOrder{
		OrderNo:       "DF-TRACK-2",
		Email:         "buyer@example.com",
		Status:        constants.OrderStatusCompleted,
		PaymentMethod: constants.PaymentMethodCOD,
		TotalAmount:   money(t, "10.00"),
	})

	if _, err := env.orders.TrackOrder(order.OrderNo, "other@example.com"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("want ErrOrderNotFound got %v", err)
	}
	if _, err := env.orders.TrackOrder("", ""); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("want ErrOrderNotFound for empty args got %v", err)
	}
}

func TestPaymentReportAggregates(t *testing.T) {
	env := setupServiceTest(t)
	seedOrder(t, env, &models.CheckoutOrder{
		Status:        constants.OrderStatusCompleted,
		PaymentMethod: constants.PaymentMethodStripe,
		TotalAmount:   money(t, "20.00"),
	})
	seedOrder(t, env, &models.CheckoutOrder{
		Status:        constants.OrderStatusCompleted,
		PaymentMethod: constants.PaymentMethodStripe,
		TotalAmount:   money(t, "30.00"),
	})
	seedOrder(t, env, &models.CheckoutOrder{
		Status:         constants.OrderStatusRefunded,
		PaymentMethod:  constants.PaymentMethodCOD,
		TotalAmount:    money(t, "15.00"),
		RefundedAmount: money(t, "15.00"),
	})

	rows, err := env.orders.PaymentReport(repository.PaymentReportFilter{})
	if err != nil {
		t.Fatalf("payment report failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows want 2 got %d", len(rows))
	}

	byKey := make(map[string]repository.PaymentReportRow, len(rows))
	for _, row := range rows {
		byKey[row.PaymentMethod+"/"+row.Status] = row
	}

	stripeRow, ok := byKey[constants.PaymentMethodStripe+"/"+constants.OrderStatusCompleted]
	if !ok {
		t.Fatalf("missing stripe/completed row: %+v", rows)
	}
	if stripeRow.OrderCount != 2 {
		t.Fatalf("stripe order count want 2 got %d", stripeRow.OrderCount)
	}
	assertReportAmount(t, "stripe total", stripeRow.TotalAmount, "50.00")

	codRow, ok := byKey[constants.PaymentMethodCOD+"/"+constants.OrderStatusRefunded]
	if !ok {
		t.Fatalf("missing cod/refunded row: %+v", rows)
	}
	assertReportAmount(t, "cod total", codRow.TotalAmount, "15.00")
	assertReportAmount(t, "cod refunded", codRow.RefundedTotal, "15.00")
}

func assertReportAmount(t *testing.T, label, got, want string) {
	t.Helper()
	gotValue, err := decimal.NewFromString(got)
	if err != nil {
		t.Fatalf("%s is not a decimal: %q", label, got)
	}
	if !gotValue.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("%s want %s got %s", label, want, got)
	}
}
