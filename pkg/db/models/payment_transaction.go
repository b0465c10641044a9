package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shoplux/shoplux-backend/pkg/enums"
	"github.com/shoplux/shoplux-backend/pkg/types"
)

// PaymentTransaction tracks one payment attempt against an order.
// Cash-on-delivery orders get a single pending transaction at creation;
// mobile-money orders get one per gateway attempt.
type PaymentTransaction struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderID     uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index:payment_transactions_order_id_idx"`
	Method      enums.PaymentMethod `gorm:"column:method;type:payment_method;not null"`
	Status      enums.PaymentStatus `gorm:"column:status;type:payment_status;not null;default:'pending'"`
	AmountCents int64               `gorm:"column:amount_cents;not null"`
	Currency    enums.Currency      `gorm:"column:currency;type:text;not null;default:'XOF'"`
	ExternalRef *string             `gorm:"column:external_ref;index:payment_transactions_external_ref_idx"`
	PaymentURL  *string             `gorm:"column:payment_url"`
	FailureCode *string             `gorm:"column:failure_code"`
	Metadata    types.JSONMap       `gorm:"column:metadata;type:jsonb;serializer:json"`
	SettledAt   *time.Time          `gorm:"column:settled_at"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
