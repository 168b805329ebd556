package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/decalforge/decalforge/internal/models"
)

func money(s string) models.Money {
	d, _ := decimal.NewFromString(s)
	return models.NewMoneyFromDecimal(d)
}

func TestTierDiscount(t *testing.T) {
	cases := []struct {
		qty  int
		want string
	}{
		{0, "0"},
		{1, "0"},
		{2, "0"},
		{3, "0.1"},
		{4, "0.1"},
		{5, "0.2"},
		{6, "0.2"},
		{7, "0.3"},
		{12, "0.3"},
	}
	for _, tc := range cases {
		want, _ := decimal.NewFromString(tc.want)
		if got := TierDiscount(tc.qty); !got.Equal(want) {
			t.Fatalf("TierDiscount(%d) = %s, want %s", tc.qty, got, want)
		}
	}
}

func TestComputeTotalsFiveUnits(t *testing.T) {
	items := []models.CartItem{
		{ProductID: 1, SKU: "DCL-001", Name: "Vinyl decal", UnitPrice: money("10.00"), Quantity: 5},
	}
	totals := ComputeTotals(items, money("8.50"), decimal.Zero)

	if got := totals.SubtotalAmount.String(); got != "40.00" {
		t.Fatalf("subtotal = %s, want 40.00", got)
	}
	if got := totals.TotalAmount.String(); got != "48.50" {
		t.Fatalf("total = %s, want 48.50", got)
	}
	if got := totals.DiscountAmount.String(); got != "10.00" {
		t.Fatalf("discount = %s, want 10.00", got)
	}
	if len(totals.Lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(totals.Lines))
	}
	if got := totals.Lines[0].LineTotal.String(); got != "40.00" {
		t.Fatalf("line total = %s, want 40.00", got)
	}
}

func TestComputeTotalsMixedTiers(t *testing.T) {
	items := []models.CartItem{
		{ProductID: 1, SKU: "DCL-001", Name: "Small", UnitPrice: money("5.00"), Quantity: 2},
		{ProductID: 2, SKU: "DCL-002", Name: "Bulk", UnitPrice: money("4.00"), Quantity: 7},
	}
	totals := ComputeTotals(items, money("0.00"), decimal.Zero)

	// 2x5.00 undiscounted plus 7x4.00 at 30% off
	if got := totals.SubtotalAmount.String(); got != "29.60" {
		t.Fatalf("subtotal = %s, want 29.60", got)
	}
	if got := totals.DiscountAmount.String(); got != "8.40" {
		t.Fatalf("discount = %s, want 8.40", got)
	}
}

func TestComputeTotalsCodePercent(t *testing.T) {
	items := []models.CartItem{
		{ProductID: 1, SKU: "DCL-001", Name: "Decal", UnitPrice: money("20.00"), Quantity: 1},
	}
	totals := ComputeTotals(items, money("5.00"), decimal.NewFromInt(10))

	// 20.00 minus 10% code discount plus shipping
	if got := totals.TotalAmount.String(); got != "23.00" {
		t.Fatalf("total = %s, want 23.00", got)
	}
	if got := totals.DiscountAmount.String(); got != "2.00" {
		t.Fatalf("discount = %s, want 2.00", got)
	}
}

func TestComputeTotalsSkipsNonPositiveQuantities(t *testing.T) {
	items := []models.CartItem{
		{ProductID: 1, SKU: "DCL-001", Name: "Decal", UnitPrice: money("10.00"), Quantity: 0},
	}
	totals := ComputeTotals(items, money("0.00"), decimal.Zero)
	if len(totals.Lines) != 0 {
		t.Fatalf("lines = %d, want 0", len(totals.Lines))
	}
	if !totals.TotalAmount.IsZero() {
		t.Fatalf("total = %s, want 0.00", totals.TotalAmount)
	}
}
