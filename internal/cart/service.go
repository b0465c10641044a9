package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoplux/shoplux-backend/internal/coupons"
	"github.com/shoplux/shoplux-backend/pkg/db/models"
	pkgerrors "github.com/shoplux/shoplux-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
}

// Service exposes cart operations for the authenticated shopper.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int, variant *string) (*CartDTO, error)
	UpdateItemQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int, variant *string) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID, variant *string) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*CartDTO, error)
	RemoveCoupon(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
}

type service struct {
	repo           *Repository
	tx             txRunner
	products       productLoader
	coupons        coupons.Service
	taxRatePercent int
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo *Repository, tx txRunner, products productLoader, couponSvc coupons.Service, taxRatePercent int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if couponSvc == nil {
		return nil, fmt.Errorf("coupon service required")
	}
	if taxRatePercent < 0 || taxRatePercent > 100 {
		return nil, fmt.Errorf("tax rate must be between 0 and 100")
	}
	return &service{
		repo:           repo,
		tx:             tx,
		products:       products,
		coupons:        couponSvc,
		taxRatePercent: taxRatePercent,
	}, nil
}

// GetCart returns the active cart, creating an empty one on first access.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	record, err := s.repo.FindOrCreateActive(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return s.buildDTO(ctx, record)
}

// AddItem adds the product to the cart, merging quantity into the existing
// line for the same (product, variant). Quantities below one are clamped to
// one rather than rejected, and a line is allowed to exceed available stock:
// the quote flags it and the order transaction is the authoritative check.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int, variant *string) (*CartDTO, error) {
	if quantity < 1 {
		quantity = 1
	}
	variant = normalizeVariant(variant)

	record, err := s.repo.FindOrCreateActive(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	byID, err := s.products.FindByIDs(ctx, []uuid.UUID{productID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	prod, ok := byID[productID]
	if !ok || !prod.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if variant != nil && len(prod.Variants) > 0 && !containsVariant(prod.Variants, *variant) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product variant")
	}

	item, err := s.repo.FindItem(ctx, record.ID, productID, variant)
	switch {
	case err == nil:
		item.Quantity += quantity
	case errors.Is(err, gorm.ErrRecordNotFound):
		var image *string
		if len(prod.ImageURLs) > 0 {
			url := prod.ImageURLs[0]
			image = &url
		}
		item = &models.CartItem{
			CartID:          record.ID,
			ProductID:       productID,
			SelectedVariant: variant,
			ProductName:     prod.Title,
			ProductImage:    image,
			Quantity:        quantity,
			UnitPriceCents:  prod.PriceCents,
		}
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}

	if err := s.repo.SaveItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart item")
	}
	if err := s.repo.Touch(ctx, record.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "touch cart")
	}
	return s.refresh(ctx, userID)
}

func normalizeVariant(variant *string) *string {
	if variant == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*variant)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func containsVariant(variants []string, candidate string) bool {
	for _, v := range variants {
		if strings.EqualFold(v, candidate) {
			return true
		}
	}
	return false
}

// UpdateItemQuantity sets the line quantity. Zero or negative removes the
// line. A quantity above available stock is kept and flagged on the quote.
func (s *service) UpdateItemQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int, variant *string) (*CartDTO, error) {
	variant = normalizeVariant(variant)
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, productID, variant)
	}

	record, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	item, err := s.repo.FindItem(ctx, record.ID, productID, variant)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the cart")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}

	item.Quantity = quantity
	if err := s.repo.SaveItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart item")
	}
	if err := s.repo.Touch(ctx, record.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "touch cart")
	}
	return s.refresh(ctx, userID)
}

// RemoveItem deletes the line. Removing an absent product is a no-op.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID, variant *string) (*CartDTO, error) {
	variant = normalizeVariant(variant)
	record, err := s.repo.FindOrCreateActive(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if err := s.repo.DeleteItem(ctx, record.ID, productID, variant); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
	}
	if err := s.repo.Touch(ctx, record.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "touch cart")
	}
	return s.refresh(ctx, userID)
}

// Clear empties the cart and drops any applied coupon.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	record, err := s.repo.FindOrCreateActive(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.ClearItems(ctx, record.ID); err != nil {
			return err
		}
		return txRepo.SetCoupon(ctx, record.ID, nil)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return s.refresh(ctx, userID)
}

// ApplyCoupon validates the code against the current subtotal and attaches it.
func (s *service) ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*CartDTO, error) {
	record, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(record.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "")
	}

	evaluation, err := s.coupons.Evaluate(ctx, code, SubtotalCents(record.Items))
	if err != nil {
		return nil, err
	}

	couponID := evaluation.Coupon.ID
	if err := s.repo.SetCoupon(ctx, record.ID, &couponID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply coupon")
	}
	return s.refresh(ctx, userID)
}

// RemoveCoupon detaches the coupon. Removing when none is applied is a no-op.
func (s *service) RemoveCoupon(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	record, err := s.repo.FindOrCreateActive(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if err := s.repo.SetCoupon(ctx, record.ID, nil); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove coupon")
	}
	return s.refresh(ctx, userID)
}

func (s *service) refresh(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	record, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload cart")
	}
	return s.buildDTO(ctx, record)
}

// buildDTO computes totals for the cart. A coupon that stopped being valid
// since it was applied is silently detached rather than failing the read.
func (s *service) buildDTO(ctx context.Context, record *models.CartRecord) (*CartDTO, error) {
	subtotal := SubtotalCents(record.Items)

	var discount int64
	if record.Coupon != nil {
		evaluation, err := s.coupons.EvaluateByID(ctx, record.Coupon, subtotal)
		typed := pkgerrors.As(err)
		switch {
		case err == nil:
			discount = evaluation.DiscountCents
		case typed != nil && typed.Code() == pkgerrors.CodeValidation:
			if detachErr := s.repo.SetCoupon(ctx, record.ID, nil); detachErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, detachErr, "detach stale coupon")
			}
			record.Coupon = nil
			record.CouponID = nil
		default:
			return nil, err
		}
	}

	totals := ComputeTotals(subtotal, discount, 0, s.taxRatePercent)
	return newCartDTO(record, totals, discount), nil
}
