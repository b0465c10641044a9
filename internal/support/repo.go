package support

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoplux/shoplux-backend/pkg/db/models"
	"github.com/shoplux/shoplux-backend/pkg/enums"
	"github.com/shoplux/shoplux-backend/pkg/pagination"
)

// Repository encapsulates support ticket persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository returns a support repository bound to the provided database.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateTicket(ctx context.Context, ticket *models.SupportTicket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

// FindByID loads a ticket with its conversation, oldest message first.
func (r *Repository) FindByID(ctx context.Context, ticketID uuid.UUID) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("id = ?", ticketID).
		First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// ListByUser pages through the user's tickets, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.SupportTicket, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).
		Model(&models.SupportTicket{}).
		Where("user_id = ?", userID)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.SupportTicket
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

func (r *Repository) AddMessage(ctx context.Context, message *models.TicketMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// SetStatus moves the ticket and stamps resolved_at when it settles. The
// stamp clears again if the ticket is reopened.
func (r *Repository) SetStatus(ctx context.Context, ticketID uuid.UUID, status enums.TicketStatus, now time.Time) error {
	updates := map[string]any{"status": status, "updated_at": now}
	if status.IsSettled() {
		updates["resolved_at"] = now
	} else {
		updates["resolved_at"] = nil
	}
	return r.db.WithContext(ctx).
		Model(&models.SupportTicket{}).
		Where("id = ?", ticketID).
		Updates(updates).Error
}

func (r *Repository) Assign(ctx context.Context, ticketID uuid.UUID, staffID *uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.SupportTicket{}).
		Where("id = ?", ticketID).
		Update("assigned_to", staffID).Error
}

// OrderBelongsToUser guards the optional order reference on a new ticket.
func (r *Repository) OrderBelongsToUser(ctx context.Context, userID, orderID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND user_id = ?", orderID, userID).
		Count(&count).Error
	return count > 0, err
}
