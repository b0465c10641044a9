package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/shoplux/shoplux-backend/pkg/enums"
)

// Product represents a catalog listing available to the storefront.
type Product struct {
	ID                  uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	SKU                 string         `gorm:"column:sku;not null;uniqueIndex:products_sku_key"`
	Slug                string         `gorm:"column:slug;not null;uniqueIndex:products_slug_key"`
	Title               string         `gorm:"column:title;not null"`
	Subtitle            *string        `gorm:"column:subtitle"`
	Description         *string        `gorm:"column:description"`
	Brand               *string        `gorm:"column:brand"`
	Category            string         `gorm:"column:category;not null;index:products_category_idx"`
	Tags                pq.StringArray `gorm:"column:tags;type:text[];not null"`
	ImageURLs           pq.StringArray `gorm:"column:image_urls;type:text[];not null"`
	Variants            pq.StringArray `gorm:"column:variants;type:text[];not null"`
	PriceCents          int64          `gorm:"column:price_cents;not null"`
	CompareAtPriceCents *int64         `gorm:"column:compare_at_price_cents"`
	Currency            enums.Currency `gorm:"column:currency;type:text;not null;default:'XOF'"`
	IsActive            bool           `gorm:"column:is_active;not null;default:true"`
	IsFeatured          bool           `gorm:"column:is_featured;not null;default:false"`
	RatingAvg           float64        `gorm:"column:rating_avg;type:numeric(3,2);not null;default:0"`
	RatingCount         int            `gorm:"column:rating_count;not null;default:0"`
	Inventory           *InventoryItem `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
