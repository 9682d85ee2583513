package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	input := service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		UserID:      req.UserID,
		Status:      domain.TicketStatus(req.Status),
		Priority:    domain.TicketPriority(req.Priority),
		AssignedTo:  req.AssignedTo,
		Comments:    make([]service.CommentInput, 0, len(req.Comments)),
	}
	for _, comment := range req.Comments {
		in := service.CommentInput{UserID: comment.UserID, Comment: comment.Comment}
		if comment.Timestamp != nil {
			in.Timestamp = *comment.Timestamp
		}
		input.Comments = append(input.Comments, in)
	}

	ticket, err := h.service.Create(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(ticket)
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	p := pagination(c)
	filter := service.TicketListFilter{
		UserID:     c.Query("userId"),
		AssignedTo: c.Query("assignedTo"),
		Status:     domain.TicketStatus(c.Query("status")),
		Priority:   domain.TicketPriority(c.Query("priority")),
	}
	tickets, total, err := h.service.List(c.UserContext(), filter, p)
	if err != nil {
		return err
	}
	return c.JSON(dto.TicketListResponse{TotalTickets: total, Page: p.Page, Limit: p.Limit, Tickets: tickets})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(ticket)
}

// UpdateTicket PUT /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	input := service.TicketUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
	}
	if req.Status != nil {
		status := domain.TicketStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TicketPriority(*req.Priority)
		input.Priority = &priority
	}

	ticket, err := h.service.Update(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(ticket)
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Ticket deleted successfully"})
}

// AddComment PATCH /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	var req dto.AddCommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.AddComment(c.UserContext(), c.Params("id"), service.CommentInput{
		UserID:  req.UserID,
		Comment: req.Comment,
	})
	if err != nil {
		return err
	}
	return c.JSON(ticket)
}
