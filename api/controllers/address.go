package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shoplux/shoplux-backend/api/responses"
	"github.com/shoplux/shoplux-backend/api/validators"
	"github.com/shoplux/shoplux-backend/internal/address"
	"github.com/shoplux/shoplux-backend/pkg/enums"
	pkgerrors "github.com/shoplux/shoplux-backend/pkg/errors"
	"github.com/shoplux/shoplux-backend/pkg/logger"
)

type addressRequest struct {
	Type         string  `json:"type" validate:"required"`
	Label        *string `json:"label"`
	FullName     string  `json:"full_name" validate:"required,min=2,max=120"`
	Phone        string  `json:"phone" validate:"required,min=6,max=32"`
	Line1        string  `json:"line1" validate:"required,min=3,max=200"`
	Line2        *string `json:"line2"`
	City         string  `json:"city" validate:"required,min=2,max=100"`
	Region       *string `json:"region"`
	PostalCode   *string `json:"postal_code"`
	CountryCode  string  `json:"country_code" validate:"required,len=2"`
	Instructions *string `json:"instructions"`
	IsDefault    bool    `json:"is_default"`
}

func (req addressRequest) toInput() (address.Input, error) {
	kind, err := enums.ParseAddressType(req.Type)
	if err != nil {
		return address.Input{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid address type")
	}
	return address.Input{
		Type:         kind,
		Label:        req.Label,
		FullName:     req.FullName,
		Phone:        req.Phone,
		Line1:        req.Line1,
		Line2:        req.Line2,
		City:         req.City,
		Region:       req.Region,
		PostalCode:   req.PostalCode,
		CountryCode:  req.CountryCode,
		Instructions: req.Instructions,
		IsDefault:    req.IsDefault,
	}, nil
}

// AddressList returns the caller's address book.
func AddressList(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"addresses": rows})
	}
}

// AddressCreate adds an address-book entry.
func AddressCreate(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// AddressUpdate replaces the writable fields of an entry.
func AddressUpdate(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addressID, err := uuid.Parse(chi.URLParam(r, "addressID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid address id"))
			return
		}

		var payload addressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Update(r.Context(), userID, addressID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// AddressDelete removes an entry from the address book.
func AddressDelete(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addressID, err := uuid.Parse(chi.URLParam(r, "addressID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid address id"))
			return
		}

		if err := svc.Delete(r.Context(), userID, addressID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

// AddressSetDefault marks one entry as the default for its type.
func AddressSetDefault(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addressID, err := uuid.Parse(chi.URLParam(r, "addressID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid address id"))
			return
		}

		if err := svc.SetDefault(r.Context(), userID, addressID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"default": true})
	}
}
