package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ShippingMethod is an admin-managed delivery option. Countries holds the
// ISO country codes the method serves; an empty list means worldwide.
type ShippingMethod struct {
	ID                      uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Code                    string         `gorm:"column:code;not null;uniqueIndex:shipping_methods_code_key"`
	Name                    string         `gorm:"column:name;not null"`
	Description             *string        `gorm:"column:description"`
	PriceCents              int64          `gorm:"column:price_cents;not null"`
	FreeAboveCents          *int64         `gorm:"column:free_above_cents"`
	Countries               pq.StringArray `gorm:"column:countries;type:text[];not null"`
	EstimatedDaysMin        int            `gorm:"column:estimated_days_min;not null;default:1"`
	EstimatedDaysMax        int            `gorm:"column:estimated_days_max;not null;default:5"`
	IsActive                bool           `gorm:"column:is_active;not null;default:true"`
	SupportsCashOnDelivery  bool           `gorm:"column:supports_cash_on_delivery;not null;default:true"`
	CreatedAt               time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt               time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
