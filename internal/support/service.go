package support

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoplux/shoplux-backend/pkg/db/models"
	"github.com/shoplux/shoplux-backend/pkg/enums"
	pkgerrors "github.com/shoplux/shoplux-backend/pkg/errors"
	"github.com/shoplux/shoplux-backend/pkg/pagination"
)

// CreateTicketInput carries a new support request from the controller.
type CreateTicketInput struct {
	OrderID     *uuid.UUID
	Subject     string
	Description string
	Priority    *enums.TicketPriority
}

// Service exposes business rules for customer support tickets.
type Service interface {
	CreateTicket(ctx context.Context, userID uuid.UUID, input CreateTicketInput) (*TicketDTO, error)
	ListTickets(ctx context.Context, userID uuid.UUID, cursor string, limit int) (PageDTO, error)
	GetTicket(ctx context.Context, userID, ticketID uuid.UUID) (*TicketDTO, error)
	AddMessage(ctx context.Context, userID, ticketID uuid.UUID, message string) (*TicketDTO, error)
	CloseTicket(ctx context.Context, userID, ticketID uuid.UUID) (*TicketDTO, error)
	StaffReply(ctx context.Context, staffID, ticketID uuid.UUID, message string) (*TicketDTO, error)
	StaffSetStatus(ctx context.Context, staffID, ticketID uuid.UUID, status enums.TicketStatus) (*TicketDTO, error)
}

type service struct {
	repo *Repository
}

// NewService builds a support service with the required dependencies.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "support repo is required")
	}
	return &service{repo: repo}, nil
}

// CreateTicket opens a new ticket. The optional order reference must belong
// to the caller.
func (s *service) CreateTicket(ctx context.Context, userID uuid.UUID, input CreateTicketInput) (*TicketDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a subject is required")
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a description is required")
	}
	priority := enums.TicketPriorityMedium
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown ticket priority")
		}
		priority = *input.Priority
	}
	if input.OrderID != nil {
		owned, err := s.repo.OrderBelongsToUser(ctx, userID, *input.OrderID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check order ownership")
		}
		if !owned {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
	}

	ticket := &models.SupportTicket{
		UserID:      userID,
		OrderID:     input.OrderID,
		Subject:     subject,
		Description: description,
		Status:      enums.TicketStatusOpen,
		Priority:    priority,
	}
	if err := s.repo.CreateTicket(ctx, ticket); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create ticket")
	}
	dto := newTicketDTO(ticket, true)
	return &dto, nil
}

// ListTickets returns a page of the caller's tickets, newest first.
func (s *service) ListTickets(ctx context.Context, userID uuid.UUID, cursor string, limit int) (PageDTO, error) {
	if userID == uuid.Nil {
		return PageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	rows, next, err := s.repo.ListByUser(ctx, userID, pagination.Params{Limit: limit, Cursor: cursor})
	if err != nil {
		return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "list tickets")
	}
	return newPageDTO(rows, next), nil
}

// GetTicket returns the caller's ticket with its full conversation.
func (s *service) GetTicket(ctx context.Context, userID, ticketID uuid.UUID) (*TicketDTO, error) {
	ticket, err := s.loadOwned(ctx, userID, ticketID)
	if err != nil {
		return nil, err
	}
	dto := newTicketDTO(ticket, true)
	return &dto, nil
}

// AddMessage appends a customer message. Settled tickets refuse new messages.
func (s *service) AddMessage(ctx context.Context, userID, ticketID uuid.UUID, message string) (*TicketDTO, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a message is required")
	}
	ticket, err := s.loadOwned(ctx, userID, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status.IsSettled() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "ticket is closed")
	}
	if err := s.repo.AddMessage(ctx, &models.TicketMessage{
		TicketID: ticket.ID,
		UserID:   userID,
		Message:  trimmed,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add message")
	}
	return s.GetTicket(ctx, userID, ticketID)
}

// CloseTicket lets the owner settle their own ticket.
func (s *service) CloseTicket(ctx context.Context, userID, ticketID uuid.UUID) (*TicketDTO, error) {
	ticket, err := s.loadOwned(ctx, userID, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status.IsSettled() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "ticket is already closed")
	}
	if err := s.repo.SetStatus(ctx, ticket.ID, enums.TicketStatusClosed, time.Now()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close ticket")
	}
	return s.GetTicket(ctx, userID, ticketID)
}

// StaffReply appends a staff message and pulls an open ticket into
// in_progress.
func (s *service) StaffReply(ctx context.Context, staffID, ticketID uuid.UUID, message string) (*TicketDTO, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a message is required")
	}
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddMessage(ctx, &models.TicketMessage{
		TicketID:     ticket.ID,
		UserID:       staffID,
		Message:      trimmed,
		IsStaffReply: true,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add staff reply")
	}
	if ticket.Status == enums.TicketStatusOpen {
		if err := s.repo.SetStatus(ctx, ticket.ID, enums.TicketStatusInProgress, time.Now()); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update ticket status")
		}
	}
	if ticket.AssignedTo == nil {
		if err := s.repo.Assign(ctx, ticket.ID, &staffID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign ticket")
		}
	}
	return s.getAny(ctx, ticketID)
}

// StaffSetStatus moves the ticket to any valid status.
func (s *service) StaffSetStatus(ctx context.Context, staffID, ticketID uuid.UUID, status enums.TicketStatus) (*TicketDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown ticket status")
	}
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetStatus(ctx, ticket.ID, status, time.Now()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update ticket status")
	}
	if ticket.AssignedTo == nil && staffID != uuid.Nil {
		if err := s.repo.Assign(ctx, ticket.ID, &staffID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign ticket")
		}
	}
	return s.getAny(ctx, ticketID)
}

func (s *service) load(ctx context.Context, ticketID uuid.UUID) (*models.SupportTicket, error) {
	if ticketID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ticket id is required")
	}
	ticket, err := s.repo.FindByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "ticket not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ticket")
	}
	return ticket, nil
}

func (s *service) loadOwned(ctx context.Context, userID, ticketID uuid.UUID) (*models.SupportTicket, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
	}
	return ticket, nil
}

func (s *service) getAny(ctx context.Context, ticketID uuid.UUID) (*TicketDTO, error) {
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	dto := newTicketDTO(ticket, true)
	return &dto, nil
}
