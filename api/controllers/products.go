package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/shoplux/shoplux-backend/api/responses"
	"github.com/shoplux/shoplux-backend/api/validators"
	productsvc "github.com/shoplux/shoplux-backend/internal/products"
	pkgerrors "github.com/shoplux/shoplux-backend/pkg/errors"
	"github.com/shoplux/shoplux-backend/pkg/logger"
	"github.com/shoplux/shoplux-backend/pkg/pagination"
)

// ProductsList serves the public catalog with filters and cursor pagination.
func ProductsList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := productsvc.ListProductsInput{
			Pagination: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
		}

		query := r.URL.Query()
		if v := strings.TrimSpace(query.Get("category")); v != "" {
			input.Filters.Category = &v
		}
		if v := strings.TrimSpace(query.Get("brand")); v != "" {
			input.Filters.Brand = &v
		}
		if v := strings.TrimSpace(query.Get("q")); v != "" {
			input.Filters.Query = v
		}
		if v := strings.TrimSpace(query.Get("price_min")); v != "" {
			cents, parseErr := strconv.ParseInt(v, 10, 64)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid price_min"))
				return
			}
			input.Filters.PriceMinCents = &cents
		}
		if v := strings.TrimSpace(query.Get("price_max")); v != "" {
			cents, parseErr := strconv.ParseInt(v, 10, 64)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid price_max"))
				return
			}
			input.Filters.PriceMaxCents = &cents
		}
		if v := strings.TrimSpace(query.Get("featured")); v != "" {
			flag, parseErr := strconv.ParseBool(v)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid featured"))
				return
			}
			input.Filters.Featured = &flag
		}
		if v := strings.TrimSpace(query.Get("in_stock")); v != "" {
			flag, parseErr := strconv.ParseBool(v)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid in_stock"))
				return
			}
			input.Filters.InStock = &flag
		}

		result, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ProductsGet returns one catalog entry by id or slug.
func ProductsGet(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		idOrSlug := strings.TrimSpace(chi.URLParam(r, "idOrSlug"))
		if idOrSlug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id or slug required"))
			return
		}

		dto, err := svc.GetProduct(r.Context(), idOrSlug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
