package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is one customer's rating of a product. A user gets a single review
// per product; resubmitting overwrites it. verified_purchase is set when the
// reviewer has a delivered order containing the product.
type Review struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID        uuid.UUID `gorm:"column:product_id;type:uuid;not null;index:reviews_product_id_idx;uniqueIndex:reviews_product_user_key"`
	UserID           uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:reviews_product_user_key"`
	Rating           int       `gorm:"column:rating;not null"`
	Title            *string   `gorm:"column:title;type:text"`
	Comment          string    `gorm:"column:comment;type:text;not null"`
	VerifiedPurchase bool      `gorm:"column:verified_purchase;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
