package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets repository.TicketRepository
	now     func() time.Time
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	UserID      string
	Status      domain.TicketStatus
	Priority    domain.TicketPriority
	AssignedTo  *string
	Comments    []CommentInput
}

// CommentInput is a comment supplied by a client. A zero Timestamp means now.
type CommentInput struct {
	UserID    string
	Comment   string
	Timestamp time.Time
}

// TicketUpdateInput holds the fields to change; nil leaves a field as is.
// An empty AssignedTo clears the assignment.
type TicketUpdateInput struct {
	Title       *string
	Description *string
	Status      *domain.TicketStatus
	Priority    *domain.TicketPriority
	AssignedTo  *string
}

func (in TicketUpdateInput) empty() bool {
	return in.Title == nil && in.Description == nil && in.Status == nil && in.Priority == nil && in.AssignedTo == nil
}

// TicketListFilter narrows listings.
type TicketListFilter struct {
	UserID     string
	AssignedTo string
	Status     domain.TicketStatus
	Priority   domain.TicketPriority
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository) *TicketService {
	return &TicketService{tickets: tickets, now: time.Now}
}

// Create stores a ticket; status defaults to open and priority to medium.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	if input.Status == "" {
		input.Status = domain.TicketStatusOpen
	}
	if input.Priority == "" {
		input.Priority = domain.TicketPriorityMedium
	}
	if !input.Status.IsValid() || !input.Priority.IsValid() {
		return nil, apperrors.NewValidationError("invalid status or priority", nil)
	}

	ticket := &domain.Ticket{
		Title:       input.Title,
		Description: input.Description,
		UserID:      input.UserID,
		Status:      input.Status,
		Priority:    input.Priority,
		AssignedTo:  nonEmpty(input.AssignedTo),
		Comments:    make([]domain.Comment, 0, len(input.Comments)),
	}
	for _, c := range input.Comments {
		ticket.Comments = append(ticket.Comments, s.comment(c))
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, storeError(err, "Ticket")
	}
	return ticket, nil
}

func (s *TicketService) List(ctx context.Context, filter TicketListFilter, p Pagination) ([]domain.Ticket, int64, error) {
	tickets, total, err := s.tickets.List(ctx, repository.TicketFilter{
		UserID:     filter.UserID,
		AssignedTo: filter.AssignedTo,
		Status:     filter.Status,
		Priority:   filter.Priority,
	}, p.window())
	if err != nil {
		return nil, 0, storeError(err, "Ticket")
	}
	return tickets, total, nil
}

func (s *TicketService) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Ticket")
	}
	return ticket, nil
}

// Update applies a partial change and returns the stored ticket.
func (s *TicketService) Update(ctx context.Context, id string, input TicketUpdateInput) (*domain.Ticket, error) {
	if input.empty() {
		return nil, apperrors.NewValidationError("at least one of title, description, status, priority or assignedTo is required", nil)
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *input.Status})
	}
	if input.Priority != nil && !input.Priority.IsValid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": *input.Priority})
	}

	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Ticket")
	}
	if input.Title != nil {
		ticket.Title = *input.Title
	}
	if input.Description != nil {
		ticket.Description = *input.Description
	}
	if input.Status != nil {
		ticket.Status = *input.Status
	}
	if input.Priority != nil {
		ticket.Priority = *input.Priority
	}
	if input.AssignedTo != nil {
		ticket.AssignedTo = nonEmpty(input.AssignedTo)
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, storeError(err, "Ticket")
	}
	return ticket, nil
}

func (s *TicketService) Delete(ctx context.Context, id string) error {
	return storeError(s.tickets.Delete(ctx, id), "Ticket")
}

// AddComment appends one comment atomically and returns the updated ticket.
func (s *TicketService) AddComment(ctx context.Context, id string, input CommentInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.UserID) == "" || strings.TrimSpace(input.Comment) == "" {
		return nil, apperrors.NewValidationError("userId and comment are required", nil)
	}
	input.Timestamp = time.Time{}
	ticket, err := s.tickets.AddComment(ctx, id, s.comment(input))
	if err != nil {
		return nil, storeError(err, "Ticket")
	}
	return ticket, nil
}

func (s *TicketService) comment(in CommentInput) domain.Comment {
	ts := in.Timestamp
	if ts.IsZero() {
		ts = s.now().UTC()
	}
	return domain.Comment{UserID: in.UserID, Comment: in.Comment, Timestamp: ts}
}

func nonEmpty(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	out := *v
	return &out
}
