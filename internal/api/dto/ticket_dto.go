package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CommentRequest is a comment embedded in a create-ticket payload.
type CommentRequest struct {
	UserID    string     `json:"userId" validate:"required"`
	Comment   string     `json:"comment" validate:"required"`
	Timestamp *time.Time `json:"timestamp"`
}

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string           `json:"title" validate:"required"`
	Description string           `json:"description" validate:"required"`
	UserID      string           `json:"userId" validate:"required"`
	Priority    string           `json:"priority" validate:"omitempty,ticketpriority"`
	AssignedTo  *string          `json:"assignedTo"`
	Status      string           `json:"status" validate:"omitempty,ticketstatus"`
	Comments    []CommentRequest `json:"comments" validate:"omitempty,dive"`
}

// UpdateTicketRequest payload; omitted fields are left unchanged.
type UpdateTicketRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Description *string `json:"description" validate:"omitempty,min=1"`
	Status      *string `json:"status" validate:"omitempty,ticketstatus"`
	Priority    *string `json:"priority" validate:"omitempty,ticketpriority"`
	AssignedTo  *string `json:"assignedTo"`
}

// AddCommentRequest payload for PATCH /tickets/:id/comments.
type AddCommentRequest struct {
	UserID  string `json:"userId"`
	Comment string `json:"comment"`
}

// TicketListResponse is the paged ticket listing.
type TicketListResponse struct {
	TotalTickets int64           `json:"totalTickets"`
	Page         int             `json:"page"`
	Limit        int             `json:"limit"`
	Tickets      []domain.Ticket `json:"tickets"`
}
