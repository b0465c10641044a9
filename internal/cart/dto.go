package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/shoplux/shoplux-backend/pkg/db/models"
)

// CartDTO is the cart payload returned to clients.
type CartDTO struct {
	ID         uuid.UUID     `json:"id"`
	Status     string        `json:"status"`
	Currency   string        `json:"currency"`
	Items      []CartItemDTO `json:"items"`
	Coupon     *CouponDTO    `json:"coupon,omitempty"`
	Totals     Totals        `json:"totals"`
	UpdatedAt  time.Time     `json:"updated_at"`
	CreatedAt  time.Time     `json:"created_at"`
}

// CartItemDTO is one line of the cart payload. StockWarning marks lines whose
// quantity exceeds what is currently available; the order transaction is the
// authoritative check.
type CartItemDTO struct {
	ProductID       uuid.UUID `json:"product_id"`
	SKU             string    `json:"sku"`
	Title           string    `json:"title"`
	ImageURL        *string   `json:"image_url,omitempty"`
	SelectedVariant *string   `json:"selected_variant,omitempty"`
	Quantity        int       `json:"quantity"`
	UnitPriceCents  int64     `json:"unit_price_cents"`
	LineTotalCents  int64     `json:"line_total_cents"`
	AvailableQty    int       `json:"available_qty"`
	StockWarning    bool      `json:"stock_warning,omitempty"`
}

// CouponDTO is the applied-coupon summary on the cart payload.
type CouponDTO struct {
	Code          string `json:"code"`
	Type          string `json:"type"`
	Value         int64  `json:"value"`
	DiscountCents int64  `json:"discount_cents"`
}

func newCartDTO(record *models.CartRecord, totals Totals, couponDiscount int64) *CartDTO {
	dto := &CartDTO{
		ID:        record.ID,
		Status:    string(record.Status),
		Currency:  string(record.Currency),
		Items:     make([]CartItemDTO, 0, len(record.Items)),
		Totals:    totals,
		UpdatedAt: record.UpdatedAt,
		CreatedAt: record.CreatedAt,
	}

	for _, item := range record.Items {
		line := CartItemDTO{
			ProductID:       item.ProductID,
			Title:           item.ProductName,
			ImageURL:        item.ProductImage,
			SelectedVariant: item.SelectedVariant,
			Quantity:        item.Quantity,
			UnitPriceCents:  item.UnitPriceCents,
			LineTotalCents:  int64(item.Quantity) * item.UnitPriceCents,
		}
		if item.Product != nil {
			line.SKU = item.Product.SKU
			if line.Title == "" {
				line.Title = item.Product.Title
			}
			if line.ImageURL == nil && len(item.Product.ImageURLs) > 0 {
				url := item.Product.ImageURLs[0]
				line.ImageURL = &url
			}
			if item.Product.Inventory != nil {
				line.AvailableQty = item.Product.Inventory.AvailableQty
			}
		}
		line.StockWarning = item.Quantity > line.AvailableQty
		dto.Items = append(dto.Items, line)
	}

	if record.Coupon != nil {
		dto.Coupon = &CouponDTO{
			Code:          record.Coupon.Code,
			Type:          string(record.Coupon.Type),
			Value:         record.Coupon.Value,
			DiscountCents: couponDiscount,
		}
	}

	return dto
}
