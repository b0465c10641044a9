package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/shoplux/shoplux-backend/pkg/db/models"
	"github.com/shoplux/shoplux-backend/pkg/types"
)

// OrderDTO is the order payload returned to clients.
type OrderDTO struct {
	ID                 uuid.UUID            `json:"id"`
	OrderNumber        string               `json:"order_number"`
	Status             string               `json:"status"`
	PaymentStatus      string               `json:"payment_status"`
	PaymentMethod      string               `json:"payment_method"`
	Currency           string               `json:"currency"`
	Items              types.OrderItems     `json:"items"`
	ShippingAddress    types.PostalAddress  `json:"shipping_address"`
	BillingAddress     *types.PostalAddress `json:"billing_address,omitempty"`
	ShippingMethodCode string               `json:"shipping_method_code"`
	ShippingMethodName string               `json:"shipping_method_name"`
	CouponCode         *string              `json:"coupon_code,omitempty"`
	SubtotalCents      int64                `json:"subtotal_cents"`
	DiscountCents      int64                `json:"discount_cents"`
	TaxCents           int64                `json:"tax_cents"`
	ShippingCents      int64                `json:"shipping_cents"`
	TotalCents         int64                `json:"total_cents"`
	PaymentURL         *string              `json:"payment_url,omitempty"`
	PaidAt             *time.Time           `json:"paid_at,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
}

// OrderSummaryDTO is the condensed row for order history listings.
type OrderSummaryDTO struct {
	ID            uuid.UUID `json:"id"`
	OrderNumber   string    `json:"order_number"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	ItemCount     int       `json:"item_count"`
	TotalCents    int64     `json:"total_cents"`
	Currency      string    `json:"currency"`
	CreatedAt     time.Time `json:"created_at"`
}

// OrderListResult carries one page of order history.
type OrderListResult struct {
	Orders     []OrderSummaryDTO `json:"orders"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

func newOrderDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:                 order.ID,
		OrderNumber:        order.OrderNumber,
		Status:             order.Status.String(),
		PaymentStatus:      order.PaymentStatus.String(),
		PaymentMethod:      order.PaymentMethod.String(),
		Currency:           string(order.Currency),
		Items:              order.Items,
		ShippingAddress:    order.ShippingAddress,
		BillingAddress:     order.BillingAddress,
		ShippingMethodCode: order.ShippingMethodCode,
		ShippingMethodName: order.ShippingMethodName,
		CouponCode:         order.CouponCode,
		SubtotalCents:      order.SubtotalCents,
		DiscountCents:      order.DiscountCents,
		TaxCents:           order.TaxCents,
		ShippingCents:      order.ShippingCents,
		TotalCents:         order.TotalCents,
		PaidAt:             order.PaidAt,
		CreatedAt:          order.CreatedAt,
	}
	// Surface the latest gateway redirect, if any.
	for i := len(order.Transactions) - 1; i >= 0; i-- {
		if url := order.Transactions[i].PaymentURL; url != nil {
			dto.PaymentURL = url
			break
		}
	}
	return dto
}

func newOrderSummaryDTO(order *models.Order) OrderSummaryDTO {
	return OrderSummaryDTO{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		Status:        order.Status.String(),
		PaymentStatus: order.PaymentStatus.String(),
		ItemCount:     order.Items.TotalQuantity(),
		TotalCents:    order.TotalCents,
		Currency:      string(order.Currency),
		CreatedAt:     order.CreatedAt,
	}
}
