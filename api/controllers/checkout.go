package controllers

import (
	"net/http"

	"github.com/shoplux/shoplux-backend/api/responses"
	"github.com/shoplux/shoplux-backend/api/validators"
	checkoutsvc "github.com/shoplux/shoplux-backend/internal/checkout"
	"github.com/shoplux/shoplux-backend/pkg/enums"
	pkgerrors "github.com/shoplux/shoplux-backend/pkg/errors"
	"github.com/shoplux/shoplux-backend/pkg/logger"
	"github.com/shoplux/shoplux-backend/pkg/types"
)

// CheckoutGet returns the caller's current checkout session, starting one at
// the address step when none exists.
func CheckoutGet(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

type updateCheckoutRequest struct {
	Email                 *string              `json:"email"`
	Phone                 *string              `json:"phone"`
	ShippingAddress       *types.PostalAddress `json:"shipping_address"`
	BillingSameAsShipping *bool                `json:"billing_same_as_shipping"`
	BillingAddress        *types.PostalAddress `json:"billing_address"`
	SaveAddressAsDefault  *bool                `json:"save_address_as_default"`
	ShippingMethodCode    *string              `json:"shipping_method_code"`
	PaymentMethod         *string              `json:"payment_method"`
	PayerPhone            *string              `json:"payer_phone"`
	Notes                 *string              `json:"notes"`
	TermsAccepted         *bool                `json:"terms_accepted"`
}

func (req updateCheckoutRequest) toInput() (checkoutsvc.UpdateInput, error) {
	input := checkoutsvc.UpdateInput{
		Email:                 req.Email,
		Phone:                 req.Phone,
		ShippingAddress:       req.ShippingAddress,
		BillingSameAsShipping: req.BillingSameAsShipping,
		BillingAddress:        req.BillingAddress,
		SaveAddressAsDefault:  req.SaveAddressAsDefault,
		ShippingMethodCode:    req.ShippingMethodCode,
		PayerPhone:            req.PayerPhone,
		Notes:                 req.Notes,
		TermsAccepted:         req.TermsAccepted,
	}
	if req.PaymentMethod != nil {
		method, err := enums.ParsePaymentMethod(*req.PaymentMethod)
		if err != nil {
			return checkoutsvc.UpdateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
		}
		input.PaymentMethod = &method
	}
	return input, nil
}

// CheckoutUpdate patches the fields of the current checkout step.
func CheckoutUpdate(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Update(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// CheckoutNextStep validates the current step and advances the session.
func CheckoutNextStep(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.NextStep(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// CheckoutPreviousStep steps the session back without dropping entered data.
func CheckoutPreviousStep(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.PreviousStep(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// CheckoutPlaceOrder converts the completed session into an order.
func CheckoutPlaceOrder(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.PlaceOrder(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
