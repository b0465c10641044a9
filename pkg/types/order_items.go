package types

import "github.com/google/uuid"

// OrderItem is the per-line snapshot embedded in an order at creation.
// Prices are copied from the cart so catalog edits never change what the
// customer was charged.
type OrderItem struct {
	ProductID       uuid.UUID `json:"product_id"`
	SKU             string    `json:"sku"`
	Title           string    `json:"title"`
	ImageURL        *string   `json:"image_url,omitempty"`
	SelectedVariant *string   `json:"selected_variant,omitempty"`
	Quantity        int       `json:"quantity"`
	UnitPriceCents  int64     `json:"unit_price_cents"`
	LineTotalCents  int64     `json:"line_total_cents"`
}

// OrderItems is the jsonb array of line snapshots on an order.
type OrderItems []OrderItem

// TotalQuantity sums line quantities across the order.
func (items OrderItems) TotalQuantity() int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

// SubtotalCents sums line totals across the order.
func (items OrderItems) SubtotalCents() int64 {
	var total int64
	for _, item := range items {
		total += item.LineTotalCents
	}
	return total
}
