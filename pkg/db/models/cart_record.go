package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shoplux/shoplux-backend/pkg/enums"
)

// CartRecord is the per-user working cart. One active cart per user;
// converted and abandoned carts are retained for auditing.
type CartRecord struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	UserID         uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index:cart_records_user_id_idx"`
	Status         enums.CartStatus `gorm:"column:status;type:cart_status;not null;default:'active'"`
	Currency       enums.Currency   `gorm:"column:currency;type:text;not null;default:'XOF'"`
	CouponID       *uuid.UUID       `gorm:"column:coupon_id;type:uuid"`
	Coupon         *Coupon          `gorm:"foreignKey:CouponID"`
	Items          []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	ConvertedAt    *time.Time       `gorm:"column:converted_at"`
	LastActivityAt time.Time        `gorm:"column:last_activity_at;not null"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
