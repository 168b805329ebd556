package service

import (
	"errors"
	"testing"
	"time"

	"github.com/decalforge/decalforge/internal/constants"
	"github.com/decalforge/decalforge/internal/models"

	"github.com/shopspring/decimal"
)

func TestCartAddItemAppliesTierDiscount(t *testing.T) {
	env := setupServiceTest(t)
	product := seedProduct(t, env, "vinyl-decal", "10.00", true)

	view, err := env.carts.AddItem("", product.ID, 5)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if view.Token == "" {
		t.Fatalf("expected a cart token for a fresh cart")
	}
	if len(view.Totals.Lines) != 1 {
		t.Fatalf("lines want 1 got %d", len(view.Totals.Lines))
	}

	line := view.Totals.Lines[0]
	assertMoney(t, "discount percent", line.DiscountPercent, "20")
	assertMoney(t, "line total", line.LineTotal, "40.00")
	assertMoney(t, "subtotal", view.Totals.SubtotalAmount, "40.00")
	assertMoney(t, "shipping", view.Totals.ShippingAmount, "5.00")
	assertMoney(t, "total", view.Totals.TotalAmount, "45.00")
}

func TestCartAddItemMergesExistingLine(t *testing.T) {
	env := setupServiceTest(t)
	product := seedProduct(t, env, "sticker-pack", "4.00", true)

	view, err := env.carts.AddItem("", product.ID, 2)
	if err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	view, err = env.carts.AddItem(view.Token, product.ID, 1)
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	if len(view.Totals.Lines) != 1 {
		t.Fatalf("lines want 1 got %d", len(view.Totals.Lines))
	}
	if view.Totals.Lines[0].Quantity != 3 {
		t.Fatalf("quantity want 3 got %d", view.Totals.Lines[0].Quantity)
	}
	// Crossing into the 3+ tier discounts the whole line.
	assertMoney(t, "line total", view.Totals.Lines[0].LineTotal, "10.80")
}

func TestCartAddItemRejectsInactiveProduct(t *testing.T) {
	env := setupServiceTest(t)
	product := seedProduct(t, env, "retired-decal", "10.00", false)

	if _, err := env.carts.AddItem("", product.ID, 1); !errors.Is(err, ErrProductInactive) {
		t.Fatalf("want ErrProductInactive got %v", err)
	}
	if _, err := env.carts.AddItem("", 9999, 1); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound got %v", err)
	}
	if _, err := env.carts.AddItem("", product.ID, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("want ErrInvalidQuantity got %v", err)
	}
}

func TestCartUpdateItemZeroRemovesLine(t *testing.T) {
	env := setupServiceTest(t)
	product := seedProduct(t, env, "bumper-decal", "14.50", true)

	view, err := env.carts.AddItem("", product.ID, 2)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	view, err = env.carts.UpdateItem(view.Token, product.ID, 0)
	if err != nil {
		t.Fatalf("update item failed: %v", err)
	}
	if len(view.Totals.Lines) != 0 {
		t.Fatalf("lines want 0 got %d", len(view.Totals.Lines))
	}
	// Empty carts ship free and total zero.
	assertMoney(t, "shipping", view.Totals.ShippingAmount, "0")
	assertMoney(t, "total", view.Totals.TotalAmount, "0")
}

func TestCartUpdateUnknownItem(t *testing.T) {
	env := setupServiceTest(t)
	cart := seedCart(t, env, "cart-token-1")

	if _, err := env.carts.UpdateItem(cart.Token, 42, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound got %v", err)
	}
	if _, err := env.carts.UpdateItem("missing-token", 42, 1); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("want ErrCartNotFound got %v", err)
	}
}

func TestCartApplyDiscountCode(t *testing.T) {
	env := setupServiceTest(t)
	product := seedProduct(t, env, "laptop-skin", "10.00", true)
	code := &models.DiscountCode{
		Code:     "SAVE10",
		Type:     constants.DiscountTypePercent,
		Value:    models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		IsActive: true,
	}
	if err := env.db.Create(code).Error; err != nil {
		t.Fatalf("seed code failed: %v", err)
	}

	view, err := env.carts.AddItem("", product.ID, 1)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	view, err = env.carts.ApplyDiscountCode(view.Token, "SAVE10")
	if err != nil {
		t.Fatalf("apply code failed: %v", err)
	}

	if view.DiscountCode != "SAVE10" {
		t.Fatalf("discount code want SAVE10 got %s", view.DiscountCode)
	}
	assertMoney(t, "discount", view.Totals.DiscountAmount, "1.00")
	assertMoney(t, "total", view.Totals.TotalAmount, "14.00")
}

func TestCartApplyExpiredDiscountCode(t *testing.T) {
	env := setupServiceTest(t)
	product := seedProduct(t, env, "window-decal", "10.00", true)
	expired := time.Now().Add(-time.Hour)
	code := &models.DiscountCode{
		Code:      "OLD10",
		Type:      constants.DiscountTypePercent,
		Value:     models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		ExpiresAt: &expired,
		IsActive:  true,
	}
	if err := env.db.Create(code).Error; err != nil {
		t.Fatalf("seed code failed: %v", err)
	}

	view, err := env.carts.AddItem("", product.ID, 1)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if _, err := env.carts.ApplyDiscountCode(view.Token, "OLD10"); !errors.Is(err, ErrDiscountCodeExpired) {
		t.Fatalf("want ErrDiscountCodeExpired got %v", err)
	}
	if _, err := env.carts.ApplyDiscountCode(view.Token, "NOPE"); !errors.Is(err, ErrDiscountCodeInvalid) {
		t.Fatalf("want ErrDiscountCodeInvalid got %v", err)
	}
}

func TestCartViewUnknownToken(t *testing.T) {
	env := setupServiceTest(t)
	if _, err := env.carts.View("missing"); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("want ErrCartNotFound got %v", err)
	}
}
