package reviews

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoplux/shoplux-backend/pkg/db/models"
	"github.com/shoplux/shoplux-backend/pkg/enums"
	"github.com/shoplux/shoplux-backend/pkg/pagination"
)

// Repository encapsulates review persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository returns a review repository bound to the provided database.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByProductAndUser returns the user's review of the product, or nil when
// they have not reviewed it.
func (r *Repository) FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// FindByIDForUser returns the review only when the user owns it.
func (r *Repository) FindByIDForUser(ctx context.Context, userID, reviewID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", reviewID, userID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Save inserts or updates the review row.
func (r *Repository) Save(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}

// Delete removes the review.
func (r *Repository) Delete(ctx context.Context, reviewID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", reviewID).Error
}

// ListByProduct pages through a product's reviews, newest first.
func (r *Repository) ListByProduct(ctx context.Context, productID uuid.UUID, params pagination.Params) ([]models.Review, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("product_id = ?", productID)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Review
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	if len(rows) > normalized {
		next := rows[normalized]
		rows = rows[:normalized]
		return rows, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return rows, nil, nil
}

// HasDeliveredPurchase reports whether one of the user's delivered orders
// contains the product. Order lines live in the items snapshot, so the scan
// happens here rather than in SQL.
func (r *Repository) HasDeliveredPurchase(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Select("items").
		Where("user_id = ? AND status = ?", userID, enums.OrderStatusDelivered).
		Find(&orders).Error
	if err != nil {
		return false, err
	}
	for _, order := range orders {
		for _, item := range order.Items {
			if item.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

// RefreshProductRating recomputes the denormalized rating aggregate on the
// product row from the current review set.
func (r *Repository) RefreshProductRating(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE products SET
			rating_avg = COALESCE((SELECT AVG(rating) FROM reviews WHERE product_id = ?), 0),
			rating_count = (SELECT COUNT(*) FROM reviews WHERE product_id = ?)
		WHERE id = ?`,
		productID, productID, productID).Error
}
