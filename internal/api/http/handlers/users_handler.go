package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// UsersHandler exposes admin user management and self-service password change.
type UsersHandler struct {
	users *service.UserService
	audit *service.AuditService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService, audit *service.AuditService) *UsersHandler {
	return &UsersHandler{users: users, audit: audit}
}

// Create handles POST /users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.Create(c.UserContext(), actorID(c), service.UserCreateInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		Role:        domain.Role(req.Role),
		Permissions: req.Permissions,
		Status:      domain.UserStatus(req.Status),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"message": "User created successfully", "user": user})
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	p := pagination(c)
	users, total, err := h.users.List(c.UserContext(), p)
	if err != nil {
		return err
	}
	return c.JSON(dto.UserListResponse{TotalUsers: total, Page: p.Page, Limit: p.Limit, Users: users})
}

// Search handles GET /users/search?query=.
func (h *UsersHandler) Search(c *fiber.Ctx) error {
	users, err := h.users.Search(c.UserContext(), c.Query("query"), pagination(c))
	if err != nil {
		return err
	}
	return c.JSON(users)
}

// Get handles GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// Update handles PUT /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.Update(c.UserContext(), actorID(c), c.Params("id"), service.UserUpdateInput{
		Username: req.Username,
		Email:    req.Email,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "User updated successfully", "user": user})
}

// Delete handles DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	if err := h.users.Delete(c.UserContext(), actorID(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "User deleted successfully"})
}

// AssignRole handles PATCH /users/:id/role.
func (h *UsersHandler) AssignRole(c *fiber.Ctx) error {
	var req dto.AssignRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.AssignRole(c.UserContext(), actorID(c), c.Params("id"), domain.Role(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Role assigned successfully", "updatedUser": user})
}

// ChangePassword handles PATCH /users/:id/password. Ownership is enforced by
// the route guard before this runs.
func (h *UsersHandler) ChangePassword(c *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.users.ChangePassword(c.UserContext(), c.Params("id"), req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Password updated successfully"})
}

// AuditTrail handles GET /users/:id/audit.
func (h *UsersHandler) AuditTrail(c *fiber.Ctx) error {
	entries, err := h.audit.History(c.UserContext(), c.Params("id"), c.QueryInt("limit", 50))
	if err != nil {
		return err
	}
	out := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.AuditEntryResponse{
			ID:        e.ID,
			Action:    string(e.Action),
			ActorID:   e.ActorID,
			TargetID:  e.TargetID,
			Details:   e.Details,
			CreatedAt: e.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"entries": out})
}

func actorID(c *fiber.Ctx) string {
	if principal, ok := auth.PrincipalFromContext(c); ok {
		return principal.UserID
	}
	return ""
}
