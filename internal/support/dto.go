package support

import (
	"time"

	"github.com/google/uuid"

	"github.com/shoplux/shoplux-backend/pkg/db/models"
	"github.com/shoplux/shoplux-backend/pkg/pagination"
)

// TicketDTO is the wire shape of one support ticket.
type TicketDTO struct {
	ID          uuid.UUID    `json:"id"`
	OrderID     *uuid.UUID   `json:"order_id,omitempty"`
	Subject     string       `json:"subject"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
	Priority    string       `json:"priority"`
	ResolvedAt  *time.Time   `json:"resolved_at,omitempty"`
	Messages    []MessageDTO `json:"messages,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// MessageDTO is one entry of a ticket conversation.
type MessageDTO struct {
	ID           uuid.UUID `json:"id"`
	Message      string    `json:"message"`
	IsStaffReply bool      `json:"is_staff_reply"`
	CreatedAt    time.Time `json:"created_at"`
}

// PageDTO carries one page of the caller's tickets.
type PageDTO struct {
	Items      []TicketDTO `json:"items"`
	NextCursor *string     `json:"next_cursor,omitempty"`
}

func newTicketDTO(row *models.SupportTicket, withMessages bool) TicketDTO {
	dto := TicketDTO{
		ID:          row.ID,
		OrderID:     row.OrderID,
		Subject:     row.Subject,
		Description: row.Description,
		Status:      row.Status.String(),
		Priority:    row.Priority.String(),
		ResolvedAt:  row.ResolvedAt,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if withMessages {
		dto.Messages = make([]MessageDTO, 0, len(row.Messages))
		for _, message := range row.Messages {
			dto.Messages = append(dto.Messages, MessageDTO{
				ID:           message.ID,
				Message:      message.Message,
				IsStaffReply: message.IsStaffReply,
				CreatedAt:    message.CreatedAt,
			})
		}
	}
	return dto
}

func newPageDTO(rows []models.SupportTicket, next *pagination.Cursor) PageDTO {
	items := make([]TicketDTO, 0, len(rows))
	for i := range rows {
		items = append(items, newTicketDTO(&rows[i], false))
	}
	page := PageDTO{Items: items}
	if next != nil {
		encoded := pagination.EncodeCursor(*next)
		page.NextCursor = &encoded
	}
	return page
}
