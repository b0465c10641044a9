package cart

import (
	"github.com/shopspring/decimal"

	"github.com/shoplux/shoplux-backend/pkg/db/models"
)

// Totals is the money breakdown for a cart or order.
// total = subtotal - discount + tax + shipping, where tax applies to the
// discounted subtotal.
type Totals struct {
	SubtotalCents int64 `json:"subtotal_cents"`
	DiscountCents int64 `json:"discount_cents"`
	TaxCents      int64 `json:"tax_cents"`
	ShippingCents int64 `json:"shipping_cents"`
	TotalCents    int64 `json:"total_cents"`
}

// SubtotalCents sums quantity times snapshotted unit price across the lines.
func SubtotalCents(items []models.CartItem) int64 {
	var subtotal int64
	for _, item := range items {
		subtotal += int64(item.Quantity) * item.UnitPriceCents
	}
	return subtotal
}

// ComputeTotals derives the full money breakdown. The discount is clamped to
// the subtotal so the taxable base can never go negative.
func ComputeTotals(subtotalCents, discountCents, shippingCents int64, taxRatePercent int) Totals {
	if discountCents < 0 {
		discountCents = 0
	}
	if discountCents > subtotalCents {
		discountCents = subtotalCents
	}

	taxable := subtotalCents - discountCents
	tax := decimal.NewFromInt(taxable).
		Mul(decimal.NewFromInt(int64(taxRatePercent))).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()

	return Totals{
		SubtotalCents: subtotalCents,
		DiscountCents: discountCents,
		TaxCents:      tax,
		ShippingCents: shippingCents,
		TotalCents:    taxable + tax + shippingCents,
	}
}
