package coupons

import (
	"testing"
	"time"

	"github.com/shoplux/shoplux-backend/pkg/db/models"
	"github.com/shoplux/shoplux-backend/pkg/enums"
)

func TestDiscountCentsPercentage(t *testing.T) {
	t.Parallel()

	coupon := &models.Coupon{Type: enums.CouponTypePercentage, Value: 10}
	if got := DiscountCents(coupon, 100000); got != 10000 {
		t.Fatalf("expected 10000 got %d", got)
	}

	// Rounds to the nearest minor unit.
	odd := &models.Coupon{Type: enums.CouponTypePercentage, Value: 15}
	if got := DiscountCents(odd, 333); got != 50 {
		t.Fatalf("expected 50 got %d", got)
	}
}

func TestDiscountCentsPercentageCap(t *testing.T) {
	t.Parallel()

	cap := int64(5000)
	coupon := &models.Coupon{Type: enums.CouponTypePercentage, Value: 20, MaxDiscountCents: &cap}
	if got := DiscountCents(coupon, 100000); got != 5000 {
		t.Fatalf("expected capped discount 5000 got %d", got)
	}
}

func TestDiscountCentsFixedNeverExceedsSubtotal(t *testing.T) {
	t.Parallel()

	coupon := &models.Coupon{Type: enums.CouponTypeFixed, Value: 8000}
	if got := DiscountCents(coupon, 5000); got != 5000 {
		t.Fatalf("expected discount clamped to subtotal, got %d", got)
	}
	if got := DiscountCents(coupon, 20000); got != 8000 {
		t.Fatalf("expected fixed discount 8000 got %d", got)
	}
}

func TestCheckRedeemable(t *testing.T) {
	t.Parallel()

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	limit := 3
	minOrder := int64(10000)

	cases := []struct {
		name    string
		coupon  models.Coupon
		wantErr bool
	}{
		{
			name:   "valid",
			coupon: models.Coupon{Type: enums.CouponTypeFixed, Value: 500, IsActive: true},
		},
		{
			name:    "inactive",
			coupon:  models.Coupon{Type: enums.CouponTypeFixed, Value: 500, IsActive: false},
			wantErr: true,
		},
		{
			name:    "not started",
			coupon:  models.Coupon{Type: enums.CouponTypeFixed, Value: 500, IsActive: true, StartsAt: &future},
			wantErr: true,
		},
		{
			name:    "expired",
			coupon:  models.Coupon{Type: enums.CouponTypeFixed, Value: 500, IsActive: true, ExpiresAt: &past},
			wantErr: true,
		},
		{
			name:    "exhausted",
			coupon:  models.Coupon{Type: enums.CouponTypeFixed, Value: 500, IsActive: true, UsageLimit: &limit, UsedCount: 3},
			wantErr: true,
		},
		{
			name:    "below minimum",
			coupon:  models.Coupon{Type: enums.CouponTypeFixed, Value: 500, IsActive: true, MinOrderCents: &minOrder},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := checkRedeemable(&tc.coupon, 5000)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
