// Package pricing holds the quantity tier discount rules shared by the
// cart, checkout, and shipment payload builders. No other package
// computes line discounts.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/decalforge/decalforge/internal/constants"
	"github.com/decalforge/decalforge/internal/models"
)

// Quantity tier thresholds.
const (
	tierSmall  = 3
	tierMedium = 5
	tierLarge  = 7
)

var (
	discountSmall  = decimal.NewFromFloat(0.10)
	discountMedium = decimal.NewFromFloat(0.20)
	discountLarge  = decimal.NewFromFloat(0.30)
)

// Line is one priced cart line after tier discounting.
type Line struct {
	ProductID       uint         `json:"product_id"`
	SKU             string       `json:"sku"`
	Name            string       `json:"name"`
	UnitPrice       models.Money `json:"unit_price"`
	Quantity        int          `json:"quantity"`
	DiscountPercent models.Money `json:"discount_percent"`
	LineSubtotal    models.Money `json:"line_subtotal"` // before tier discount
	LineTotal       models.Money `json:"line_total"`    // after tier discount
}

// Totals aggregates a priced cart.
type Totals struct {
	Lines          []Line       `json:"lines"`
	SubtotalAmount models.Money `json:"subtotal_amount"` // sum of discounted lines
	ShippingAmount models.Money `json:"shipping_amount"`
	DiscountAmount models.Money `json:"discount_amount"` // tier savings plus code discount
	TotalAmount    models.Money `json:"total_amount"`
}

// TierDiscount returns the discount fraction for a line quantity.
// Below 3 there is no discount; 3-4 gets 10%, 5-6 gets 20%, 7 and up 30%.
func TierDiscount(quantity int) decimal.Decimal {
	switch {
	case quantity >= tierLarge:
		return discountLarge
	case quantity >= tierMedium:
		return discountMedium
	case quantity >= tierSmall:
		return discountSmall
	default:
		return decimal.Zero
	}
}

// ComputeTotals prices every line with its tier discount, applies the
// optional cart-level percent discount to the discounted subtotal, and
// adds shipping. All intermediate amounts are rounded to 2 places.
func ComputeTotals(items []models.CartItem, shipping models.Money, codePercent decimal.Decimal) Totals {
	totals := Totals{
		Lines:          make([]Line, 0, len(items)),
		ShippingAmount: shipping,
	}

	rawSubtotal := decimal.Zero
	discounted := decimal.Zero
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		qty := decimal.NewFromInt(int64(item.Quantity))
		lineSubtotal := item.UnitPrice.Decimal.Mul(qty).Round(2)
		fraction := TierDiscount(item.Quantity)
		lineTotal := lineSubtotal.Mul(decimal.NewFromInt(1).Sub(fraction)).Round(2)

		totals.Lines = append(totals.Lines, Line{
			ProductID:       item.ProductID,
			SKU:             item.SKU,
			Name:            item.Name,
			UnitPrice:       item.UnitPrice,
			Quantity:        item.Quantity,
			DiscountPercent: models.NewMoneyFromDecimal(fraction.Mul(decimal.NewFromInt(100))),
			LineSubtotal:    models.NewMoneyFromDecimal(lineSubtotal),
			LineTotal:       models.NewMoneyFromDecimal(lineTotal),
		})
		rawSubtotal = rawSubtotal.Add(lineSubtotal)
		discounted = discounted.Add(lineTotal)
	}

	codeDiscount := decimal.Zero
	if codePercent.IsPositive() {
		codeDiscount = discounted.Mul(codePercent).Div(decimal.NewFromInt(100)).Round(2)
	}

	subtotal := discounted.Round(2)
	total := subtotal.Sub(codeDiscount).Add(shipping.Decimal).Round(2)
	if total.IsNegative() {
		total = decimal.Zero
	}

	totals.SubtotalAmount = models.NewMoneyFromDecimal(subtotal)
	totals.DiscountAmount = models.NewMoneyFromDecimal(rawSubtotal.Sub(discounted).Add(codeDiscount))
	totals.TotalAmount = models.NewMoneyFromDecimal(total)
	return totals
}

// ComputeTotalsWithCode prices the cart and applies a discount code of
// either type. Fixed codes never push the total below shipping cost.
func ComputeTotalsWithCode(items []models.CartItem, shipping models.Money, code *models.DiscountCode) Totals {
	if code == nil {
		return ComputeTotals(items, shipping, decimal.Zero)
	}
	if code.Type == constants.DiscountTypePercent {
		return ComputeTotals(items, shipping, code.Value.Decimal)
	}

	totals := ComputeTotals(items, shipping, decimal.Zero)
	fixed := code.Value.Decimal.Round(2)
	if fixed.IsNegative() {
		fixed = decimal.Zero
	}
	if fixed.GreaterThan(totals.SubtotalAmount.Decimal) {
		fixed = totals.SubtotalAmount.Decimal
	}
	totals.DiscountAmount = models.NewMoneyFromDecimal(totals.DiscountAmount.Decimal.Add(fixed))
	totals.TotalAmount = models.NewMoneyFromDecimal(totals.TotalAmount.Decimal.Sub(fixed).Round(2))
	return totals
}
