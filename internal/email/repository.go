package email

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shoplux/shoplux-backend/pkg/db/models"
)

// Repository loads admin-editable transactional templates.
type Repository struct {
	db *gorm.DB
}

// NewRepository returns an email template repository bound to the database.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindActiveByKey returns the active template for a key, or nil when no
// active template exists so callers can fall back to built-in copy.
func (r *Repository) FindActiveByKey(ctx context.Context, key string) (*models.EmailTemplate, error) {
	var template models.EmailTemplate
	err := r.db.WithContext(ctx).
		Where("key = ? AND is_active = ?", key, true).
		First(&template).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &template, nil
}
