package wishlist

import (
	"time"

	"github.com/google/uuid"

	product "github.com/shoplux/shoplux-backend/internal/products"
)

// ItemDTO wraps the product summary included in a wishlist row.
type ItemDTO struct {
	Product   product.ProductSummary `json:"product"`
	CreatedAt time.Time              `json:"created_at"`
}

// PageDTO returns a cursor-paginated wishlist view.
type PageDTO struct {
	Items      []ItemDTO `json:"items"`
	Total      int64     `json:"total"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// IDsDTO is a lightweight projection containing only product IDs, used by
// the storefront to mark hearts without loading full product rows.
type IDsDTO struct {
	ProductIDs []uuid.UUID `json:"product_ids"`
}
