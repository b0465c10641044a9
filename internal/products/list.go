package product

import (
	"github.com/shoplux/shoplux-backend/pkg/pagination"
)

// ProductListFilters narrows the catalog listing.
type ProductListFilters struct {
	Category      *string
	Brand         *string
	PriceMinCents *int64
	PriceMaxCents *int64
	Featured      *bool
	InStock       *bool
	Query         string
}

// ListProductsInput bundles pagination and filters for the listing endpoint.
type ListProductsInput struct {
	Pagination pagination.Params
	Filters    ProductListFilters
}
