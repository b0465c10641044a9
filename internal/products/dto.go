package product

import (
	"time"

	"github.com/google/uuid"

	"github.com/shoplux/shoplux-backend/pkg/db/models"
)

// ProductDTO represents the storefront product payload returned to clients.
type ProductDTO struct {
	ID                  uuid.UUID     `json:"id"`
	SKU                 string        `json:"sku"`
	Slug                string        `json:"slug"`
	Title               string        `json:"title"`
	Subtitle            *string       `json:"subtitle,omitempty"`
	Description         *string       `json:"description,omitempty"`
	Brand               *string       `json:"brand,omitempty"`
	Category            string        `json:"category"`
	Tags                []string      `json:"tags"`
	ImageURLs           []string      `json:"image_urls"`
	PriceCents          int64         `json:"price_cents"`
	CompareAtPriceCents *int64        `json:"compare_at_price_cents,omitempty"`
	Currency            string        `json:"currency"`
	IsFeatured          bool          `json:"is_featured"`
	RatingAvg           float64       `json:"rating_avg"`
	RatingCount         int           `json:"rating_count"`
	Inventory           *InventoryDTO `json:"inventory,omitempty"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

// InventoryDTO exposes the stock view safe to show shoppers.
type InventoryDTO struct {
	InStock   bool `json:"in_stock"`
	LowStock  bool `json:"low_stock"`
	Available int  `json:"available"`
}

// ProductSummary is the compact row used by catalog listings.
type ProductSummary struct {
	ID                  uuid.UUID `json:"id"`
	SKU                 string    `json:"sku"`
	Slug                string    `json:"slug"`
	Title               string    `json:"title"`
	Subtitle            *string   `json:"subtitle,omitempty"`
	Brand               *string   `json:"brand,omitempty"`
	Category            string    `json:"category"`
	ImageURLs           []string  `json:"image_urls"`
	PriceCents          int64     `json:"price_cents"`
	CompareAtPriceCents *int64    `json:"compare_at_price_cents,omitempty"`
	Currency            string    `json:"currency"`
	IsFeatured          bool      `json:"is_featured"`
	RatingAvg           float64   `json:"rating_avg"`
	RatingCount         int       `json:"rating_count"`
	InStock             bool      `json:"in_stock"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// ProductListResult pairs a page of summaries with the next cursor.
type ProductListResult struct {
	Products   []ProductSummary `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:                  product.ID,
		SKU:                 product.SKU,
		Slug:                product.Slug,
		Title:               product.Title,
		Subtitle:            product.Subtitle,
		Description:         product.Description,
		Brand:               product.Brand,
		Category:            product.Category,
		Tags:                append([]string{}, product.Tags...),
		ImageURLs:           append([]string{}, product.ImageURLs...),
		PriceCents:          product.PriceCents,
		CompareAtPriceCents: product.CompareAtPriceCents,
		Currency:            string(product.Currency),
		IsFeatured:          product.IsFeatured,
		RatingAvg:           product.RatingAvg,
		RatingCount:         product.RatingCount,
		CreatedAt:           product.CreatedAt,
		UpdatedAt:           product.UpdatedAt,
	}

	if product.Inventory != nil {
		available := product.Inventory.AvailableQty
		dto.Inventory = &InventoryDTO{
			InStock:   available > 0,
			LowStock:  available > 0 && available <= product.Inventory.LowStockThreshold,
			Available: available,
		}
	}

	return dto
}

// NewProductSummary builds the listing row from a preloaded model.
func NewProductSummary(product *models.Product) ProductSummary {
	summary := ProductSummary{
		ID:                  product.ID,
		SKU:                 product.SKU,
		Slug:                product.Slug,
		Title:               product.Title,
		Subtitle:            product.Subtitle,
		Brand:               product.Brand,
		Category:            product.Category,
		ImageURLs:           append([]string{}, product.ImageURLs...),
		PriceCents:          product.PriceCents,
		CompareAtPriceCents: product.CompareAtPriceCents,
		Currency:            string(product.Currency),
		IsFeatured:          product.IsFeatured,
		RatingAvg:           product.RatingAvg,
		RatingCount:         product.RatingCount,
		CreatedAt:           product.CreatedAt,
		UpdatedAt:           product.UpdatedAt,
	}
	if product.Inventory != nil {
		summary.InStock = product.Inventory.AvailableQty > 0
	}
	return summary
}
