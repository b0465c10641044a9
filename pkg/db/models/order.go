package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shoplux/shoplux-backend/pkg/enums"
	"github.com/shoplux/shoplux-backend/pkg/types"
)

// Order is the immutable record produced at checkout. Item and address data
// is snapshotted as jsonb so later catalog or address edits never rewrite
// order history.
type Order struct {
	ID                 uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber        string               `gorm:"column:order_number;not null;uniqueIndex:orders_order_number_key"`
	UserID             uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index:orders_user_id_idx"`
	Status             enums.OrderStatus    `gorm:"column:status;type:order_status;not null;default:'pending'"`
	PaymentStatus      enums.PaymentStatus  `gorm:"column:payment_status;type:payment_status;not null;default:'pending'"`
	PaymentMethod      enums.PaymentMethod  `gorm:"column:payment_method;type:payment_method;not null"`
	Currency           enums.Currency       `gorm:"column:currency;type:text;not null;default:'XOF'"`
	Items              types.OrderItems     `gorm:"column:items;type:jsonb;serializer:json;not null"`
	ShippingAddress    types.PostalAddress  `gorm:"column:shipping_address;type:jsonb;serializer:json;not null"`
	BillingAddress     *types.PostalAddress `gorm:"column:billing_address;type:jsonb;serializer:json"`
	ShippingMethodCode string               `gorm:"column:shipping_method_code;not null"`
	ShippingMethodName string               `gorm:"column:shipping_method_name;not null"`
	CouponCode         *string              `gorm:"column:coupon_code"`
	CouponID           *uuid.UUID           `gorm:"column:coupon_id;type:uuid"`
	SubtotalCents      int64                `gorm:"column:subtotal_cents;not null"`
	DiscountCents      int64                `gorm:"column:discount_cents;not null;default:0"`
	TaxCents           int64                `gorm:"column:tax_cents;not null;default:0"`
	ShippingCents      int64                `gorm:"column:shipping_cents;not null;default:0"`
	TotalCents         int64                `gorm:"column:total_cents;not null"`
	Notes              *string              `gorm:"column:notes"`
	ExpiresAt          *time.Time           `gorm:"column:expires_at;index:orders_expires_at_idx"`
	PaidAt             *time.Time           `gorm:"column:paid_at"`
	ShippedAt          *time.Time           `gorm:"column:shipped_at"`
	DeliveredAt        *time.Time           `gorm:"column:delivered_at"`
	CancelledAt        *time.Time           `gorm:"column:cancelled_at"`
	ExpiredAt          *time.Time           `gorm:"column:expired_at"`
	Transactions       []PaymentTransaction `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
