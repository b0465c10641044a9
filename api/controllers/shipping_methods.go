package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shoplux/shoplux-backend/api/responses"
	"github.com/shoplux/shoplux-backend/internal/shipping"
	"github.com/shoplux/shoplux-backend/pkg/enums"
	pkgerrors "github.com/shoplux/shoplux-backend/pkg/errors"
	"github.com/shoplux/shoplux-backend/pkg/logger"
)

// ShippingMethodsList returns the methods serving a country, priced against
// the given subtotal so free-shipping thresholds are already applied.
func ShippingMethodsList(svc shipping.Service, defaultCountry string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipping service unavailable"))
			return
		}

		country := strings.TrimSpace(r.URL.Query().Get("country"))
		if country == "" {
			country = defaultCountry
		}

		var subtotal int64
		if raw := strings.TrimSpace(r.URL.Query().Get("subtotal")); raw != "" {
			value, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || value < 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "subtotal must be a non-negative integer"))
				return
			}
			subtotal = value
		}

		var method *enums.PaymentMethod
		if raw := strings.TrimSpace(r.URL.Query().Get("payment_method")); raw != "" {
			parsed, err := enums.ParsePaymentMethod(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
				return
			}
			method = &parsed
		}

		methods, err := svc.ListEligible(r.Context(), country, subtotal, method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"methods": methods})
	}
}
