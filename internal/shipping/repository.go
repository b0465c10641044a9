package shipping

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/shoplux/shoplux-backend/pkg/db/models"
)

// Repository encapsulates shipping method persistence.
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

// ListActive returns all active shipping methods ordered by base price.
func (r *Repository) ListActive(ctx context.Context) ([]models.ShippingMethod, error) {
	var rows []models.ShippingMethod
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("price_cents ASC").
		Order("code ASC").
		Find(&rows).Error
	return rows, err
}

// FindActiveByCode loads a single active shipping method.
func (r *Repository) FindActiveByCode(ctx context.Context, code string) (*models.ShippingMethod, error) {
	var method models.ShippingMethod
	err := r.db.WithContext(ctx).
		Where("code = ? AND is_active = ?", strings.TrimSpace(code), true).
		First(&method).Error
	if err != nil {
		return nil, err
	}
	return &method, nil
}
