package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	pkgerrors "github.com/shoplux/shoplux-backend/pkg/errors"
)

// Service exposes the storefront catalog read operations.
type Service interface {
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	GetProduct(ctx context.Context, idOrSlug string) (*ProductDTO, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

// ListProducts returns a cursor-paginated catalog page.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	if input.Filters.PriceMinCents != nil && *input.Filters.PriceMinCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_min must be non-negative")
	}
	if input.Filters.PriceMaxCents != nil && *input.Filters.PriceMaxCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_max must be non-negative")
	}
	if input.Filters.PriceMinCents != nil && input.Filters.PriceMaxCents != nil &&
		*input.Filters.PriceMinCents > *input.Filters.PriceMaxCents {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_min cannot exceed price_max")
	}

	result, err := s.repo.ListProductSummaries(ctx, productListQuery{
		Pagination: input.Pagination,
		Filters:    input.Filters,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return result, nil
}

// GetProduct loads a single active product by ID or slug.
func (s *service) GetProduct(ctx context.Context, idOrSlug string) (*ProductDTO, error) {
	idOrSlug = strings.TrimSpace(idOrSlug)
	if idOrSlug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id or slug is required")
	}

	product, err := s.repo.GetProductDetail(ctx, idOrSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return NewProductDTO(product), nil
}
