package coupons

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shoplux/shoplux-backend/pkg/db/models"
	"github.com/shoplux/shoplux-backend/pkg/enums"
	pkgerrors "github.com/shoplux/shoplux-backend/pkg/errors"
)

// Evaluation is the outcome of validating a coupon against a subtotal.
type Evaluation struct {
	Coupon        *models.Coupon
	DiscountCents int64
}

// Service exposes coupon validation and discount math.
type Service interface {
	Evaluate(ctx context.Context, code string, subtotalCents int64) (*Evaluation, error)
	EvaluateByID(ctx context.Context, coupon *models.Coupon, subtotalCents int64) (*Evaluation, error)
}

type service struct {
	repo *Repository
}

// NewService constructs the coupon service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	return &service{repo: repo}, nil
}

// Evaluate validates the code and computes the discount for the subtotal.
func (s *service) Evaluate(ctx context.Context, code string, subtotalCents int64) (*Evaluation, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}

	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is not valid")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}
	return s.EvaluateByID(ctx, coupon, subtotalCents)
}

// EvaluateByID validates an already-loaded coupon against the subtotal.
func (s *service) EvaluateByID(_ context.Context, coupon *models.Coupon, subtotalCents int64) (*Evaluation, error) {
	if coupon == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is not valid")
	}
	if err := checkRedeemable(coupon, subtotalCents); err != nil {
		return nil, err
	}
	return &Evaluation{
		Coupon:        coupon,
		DiscountCents: DiscountCents(coupon, subtotalCents),
	}, nil
}

func checkRedeemable(coupon *models.Coupon, subtotalCents int64) error {
	now := time.Now()
	switch {
	case !coupon.IsActive:
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon code is not valid")
	case coupon.StartsAt != nil && coupon.StartsAt.After(now):
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon is not active yet")
	case coupon.ExpiresAt != nil && !coupon.ExpiresAt.After(now):
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon has expired")
	case coupon.UsageLimit != nil && coupon.UsedCount >= *coupon.UsageLimit:
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon usage limit reached")
	case coupon.MinOrderCents != nil && subtotalCents < *coupon.MinOrderCents:
		return pkgerrors.New(pkgerrors.CodeValidation, "order subtotal is below the coupon minimum")
	}
	return nil
}

// DiscountCents computes the discount a coupon grants on the subtotal.
// Percentage coupons are computed with decimal math, rounded to the nearest
// minor unit, and capped at max_discount_cents when set. Fixed coupons never
// exceed the subtotal.
func DiscountCents(coupon *models.Coupon, subtotalCents int64) int64 {
	if subtotalCents <= 0 {
		return 0
	}
	switch coupon.Type {
	case enums.CouponTypePercentage:
		discount := decimal.NewFromInt(subtotalCents).
			Mul(decimal.NewFromInt(coupon.Value)).
			Div(decimal.NewFromInt(100)).
			Round(0).
			IntPart()
		if coupon.MaxDiscountCents != nil && discount > *coupon.MaxDiscountCents {
			discount = *coupon.MaxDiscountCents
		}
		if discount > subtotalCents {
			discount = subtotalCents
		}
		return discount
	case enums.CouponTypeFixed:
		if coupon.Value > subtotalCents {
			return subtotalCents
		}
		return coupon.Value
	default:
		return 0
	}
}
