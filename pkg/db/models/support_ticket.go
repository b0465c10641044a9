package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shoplux/shoplux-backend/pkg/enums"
)

// SupportTicket is a customer support request, optionally tied to an order.
// resolved_at is stamped when the ticket reaches resolved or closed.
type SupportTicket struct {
	ID          uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	UserID      uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index:support_tickets_user_id_idx"`
	OrderID     *uuid.UUID           `gorm:"column:order_id;type:uuid"`
	Subject     string               `gorm:"column:subject;type:text;not null"`
	Description string               `gorm:"column:description;type:text;not null"`
	Status      enums.TicketStatus   `gorm:"column:status;type:ticket_status;not null"`
	Priority    enums.TicketPriority `gorm:"column:priority;type:ticket_priority;not null"`
	AssignedTo  *uuid.UUID           `gorm:"column:assigned_to;type:uuid"`
	ResolvedAt  *time.Time           `gorm:"column:resolved_at;type:timestamptz"`
	Messages    []TicketMessage      `gorm:"foreignKey:TicketID"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// TicketMessage is one entry in a ticket's conversation thread.
type TicketMessage struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	TicketID     uuid.UUID `gorm:"column:ticket_id;type:uuid;not null;index:ticket_messages_ticket_id_idx"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	Message      string    `gorm:"column:message;type:text;not null"`
	IsStaffReply bool      `gorm:"column:is_staff_reply;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
