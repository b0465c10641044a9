package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shoplux/shoplux-backend/api/middleware"
	"github.com/shoplux/shoplux-backend/api/responses"
	"github.com/shoplux/shoplux-backend/api/validators"
	ordersvc "github.com/shoplux/shoplux-backend/internal/orders"
	"github.com/shoplux/shoplux-backend/pkg/enums"
	pkgerrors "github.com/shoplux/shoplux-backend/pkg/errors"
	"github.com/shoplux/shoplux-backend/pkg/logger"
	"github.com/shoplux/shoplux-backend/pkg/outbox"
)

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminOrderUpdateStatus moves an order along the fulfillment lifecycle.
// Illegal transitions are rejected with a state conflict.
func AdminOrderUpdateStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		adminID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		var payload updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		next, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
			return
		}

		actor := &outbox.ActorRef{UserID: adminID, Role: middleware.RoleFromContext(r.Context())}
		if err := svc.UpdateStatus(r.Context(), orderID, next, actor); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{
			"order_id": orderID.String(),
			"status":   next.String(),
		})
	}
}
