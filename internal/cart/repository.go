package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoplux/shoplux-backend/pkg/db/models"
	"github.com/shoplux/shoplux-backend/pkg/enums"
)

// Repository encapsulates cart record and item persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided GORM handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindActiveByUser returns the user's active cart with items and coupon.
func (r *Repository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	var record models.CartRecord
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Items.Product").
		Preload("Items.Product.Inventory").
		Preload("Coupon").
		Where("user_id = ? AND status = ?", userID, enums.CartStatusActive).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindOrCreateActive returns the active cart, creating an empty one when absent.
func (r *Repository) FindOrCreateActive(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	record, err := r.FindActiveByUser(ctx, userID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := &models.CartRecord{
		UserID:         userID,
		Status:         enums.CartStatusActive,
		Currency:       enums.CurrencyXOF,
		LastActivityAt: time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(fresh).Error; err != nil {
		return nil, err
	}
	return fresh, nil
}

// FindItem returns the cart line for the product and variant, if present.
// Lines with a variant are distinct from the variant-less line of the same
// product.
func (r *Repository) FindItem(ctx context.Context, cartID, productID uuid.UUID, variant *string) (*models.CartItem, error) {
	var item models.CartItem
	err := variantScope(r.db.WithContext(ctx), variant).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func variantScope(db *gorm.DB, variant *string) *gorm.DB {
	if variant == nil {
		return db.Where("selected_variant IS NULL")
	}
	return db.Where("selected_variant = ?", *variant)
}

// SaveItem inserts or updates a cart line.
func (r *Repository) SaveItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// DeleteItem removes the cart line for the product and variant.
func (r *Repository) DeleteItem(ctx context.Context, cartID, productID uuid.UUID, variant *string) error {
	return variantScope(r.db.WithContext(ctx), variant).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&models.CartItem{}).Error
}

// ClearItems removes every line from the cart.
func (r *Repository) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}

// SetCoupon attaches or detaches the coupon on the cart.
func (r *Repository) SetCoupon(ctx context.Context, cartID uuid.UUID, couponID *uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("id = ?", cartID).
		Updates(map[string]any{
			"coupon_id":        couponID,
			"last_activity_at": time.Now(),
		}).Error
}

// Touch refreshes the cart's activity timestamp.
func (r *Repository) Touch(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("id = ?", cartID).
		Update("last_activity_at", time.Now()).Error
}

// MarkConverted flips the cart to converted and clears its items. Runs inside
// the order transaction so a failed order leaves the cart intact.
func (r *Repository) MarkConverted(ctx context.Context, cartID uuid.UUID) error {
	now := time.Now()
	if err := r.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("id = ? AND status = ?", cartID, enums.CartStatusActive).
		Updates(map[string]any{
			"status":       enums.CartStatusConverted,
			"converted_at": now,
		}).Error; err != nil {
		return err
	}
	return r.ClearItems(ctx, cartID)
}

// MarkAbandonedBefore flips stale active carts to abandoned.
func (r *Repository) MarkAbandonedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("status = ? AND last_activity_at < ?", enums.CartStatusActive, cutoff).
		Update("status", enums.CartStatusAbandoned)
	return result.RowsAffected, result.Error
}
