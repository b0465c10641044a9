package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shoplux/shoplux-backend/pkg/enums"
)

// Coupon is an admin-managed discount code. UsedCount is only advanced by a
// conditional UPDATE at order creation so the UsageLimit can never be
// oversubscribed under concurrency.
type Coupon struct {
	ID               uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Code             string           `gorm:"column:code;not null;uniqueIndex:coupons_code_key"`
	Type             enums.CouponType `gorm:"column:type;type:coupon_type;not null"`
	Value            int64            `gorm:"column:value;not null"`
	MinOrderCents    *int64           `gorm:"column:min_order_cents"`
	MaxDiscountCents *int64           `gorm:"column:max_discount_cents"`
	UsageLimit       *int             `gorm:"column:usage_limit"`
	UsedCount        int              `gorm:"column:used_count;not null;default:0"`
	StartsAt         *time.Time       `gorm:"column:starts_at"`
	ExpiresAt        *time.Time       `gorm:"column:expires_at"`
	IsActive         bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
