package shipping

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoplux/shoplux-backend/pkg/db/models"
	"github.com/shoplux/shoplux-backend/pkg/enums"
	pkgerrors "github.com/shoplux/shoplux-backend/pkg/errors"
)

// MethodDTO is a shipping option priced against a concrete cart subtotal.
type MethodDTO struct {
	ID               uuid.UUID `json:"id"`
	Code             string    `json:"code"`
	Name             string    `json:"name"`
	Description      *string   `json:"description,omitempty"`
	PriceCents       int64     `json:"price_cents"`
	FreeAboveCents   *int64    `json:"free_above_cents,omitempty"`
	IsFree           bool      `json:"is_free"`
	EstimatedDaysMin int       `json:"estimated_days_min"`
	EstimatedDaysMax int       `json:"estimated_days_max"`
}

// Resolved is the outcome of pricing a chosen method for an order.
type Resolved struct {
	Method    *models.ShippingMethod
	CostCents int64
}

// Service exposes shipping method resolution for checkout.
type Service interface {
	ListEligible(ctx context.Context, countryCode string, subtotalCents int64, paymentMethod *enums.PaymentMethod) ([]MethodDTO, error)
	Resolve(ctx context.Context, code, countryCode string, subtotalCents int64) (*Resolved, error)
}

type service struct {
	repo *Repository
}

// NewService constructs the shipping service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shipping repository required")
	}
	return &service{repo: repo}, nil
}

// ListEligible returns methods serving the country, priced for the subtotal
// and ordered by effective cost ascending.
func (s *service) ListEligible(ctx context.Context, countryCode string, subtotalCents int64, paymentMethod *enums.PaymentMethod) ([]MethodDTO, error) {
	methods, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shipping methods")
	}

	eligible := make([]MethodDTO, 0, len(methods))
	for i := range methods {
		method := methods[i]
		if !servesCountry(&method, countryCode) {
			continue
		}
		if paymentMethod != nil && *paymentMethod == enums.PaymentMethodCashOnDelivery && !method.SupportsCashOnDelivery {
			continue
		}
		eligible = append(eligible, toDTO(&method, subtotalCents))
	}

	// Repository orders by base price; free methods still sort first.
	for i := 1; i < len(eligible); i++ {
		for j := i; j > 0 && effectiveCost(eligible[j]) < effectiveCost(eligible[j-1]); j-- {
			eligible[j], eligible[j-1] = eligible[j-1], eligible[j]
		}
	}
	return eligible, nil
}

// Resolve prices the chosen method for the order. Unknown, inactive, or
// out-of-country codes are rejected rather than falling back to a default.
func (s *service) Resolve(ctx context.Context, code, countryCode string, subtotalCents int64) (*Resolved, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping method is required")
	}

	method, err := s.repo.FindActiveByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping method is not available")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shipping method")
	}
	if !servesCountry(method, countryCode) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping method does not serve the delivery country")
	}

	return &Resolved{
		Method:    method,
		CostCents: CostCents(method, subtotalCents),
	}, nil
}

// CostCents applies the free-shipping threshold to the method's base price.
func CostCents(method *models.ShippingMethod, subtotalCents int64) int64 {
	if method.FreeAboveCents != nil && subtotalCents >= *method.FreeAboveCents {
		return 0
	}
	return method.PriceCents
}

func servesCountry(method *models.ShippingMethod, countryCode string) bool {
	if len(method.Countries) == 0 {
		return true
	}
	countryCode = strings.ToUpper(strings.TrimSpace(countryCode))
	for _, candidate := range method.Countries {
		if strings.ToUpper(candidate) == countryCode {
			return true
		}
	}
	return false
}

func toDTO(method *models.ShippingMethod, subtotalCents int64) MethodDTO {
	cost := CostCents(method, subtotalCents)
	return MethodDTO{
		ID:               method.ID,
		Code:             method.Code,
		Name:             method.Name,
		Description:      method.Description,
		PriceCents:       cost,
		FreeAboveCents:   method.FreeAboveCents,
		IsFree:           cost == 0,
		EstimatedDaysMin: method.EstimatedDaysMin,
		EstimatedDaysMax: method.EstimatedDaysMax,
	}
}

func effectiveCost(dto MethodDTO) int64 {
	return dto.PriceCents
}
