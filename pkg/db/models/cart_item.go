package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is a product line inside a CartRecord. Name, image and unit price
// are snapshotted when the item is added so quotes stay stable while the user
// shops. Lines are keyed by (cart, product, variant): the same product in two
// sizes occupies two lines.
type CartItem struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CartID          uuid.UUID `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:cart_items_cart_product_key"`
	ProductID       uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:cart_items_cart_product_key"`
	Product         *Product  `gorm:"foreignKey:ProductID"`
	SelectedVariant *string   `gorm:"column:selected_variant;uniqueIndex:cart_items_cart_product_key"`
	ProductName     string    `gorm:"column:product_name;not null"`
	ProductImage    *string   `gorm:"column:product_image"`
	Quantity        int       `gorm:"column:quantity;not null"`
	UnitPriceCents  int64     `gorm:"column:unit_price_cents;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
