package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// LoginRequest payload for POST /users/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateUserRequest payload for admin user creation.
type CreateUserRequest struct {
	Username    string   `json:"username" validate:"required,max=64"`
	Password    string   `json:"password" validate:"required,min=6,passwordbytes"`
	Email       string   `json:"email" validate:"required,email"`
	Role        string   `json:"role" validate:"omitempty,role"`
	Permissions []string `json:"permissions" validate:"omitempty,dive,required"`
	Status      string   `json:"status" validate:"omitempty,userstatus"`
}

// UpdateUserRequest payload for PUT /users/:id.
type UpdateUserRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required,role"`
}

// AssignRoleRequest payload for PATCH /users/:id/role.
type AssignRoleRequest struct {
	Role string `json:"role" validate:"required,role"`
}

// ChangePasswordRequest payload for PATCH /users/:id/password.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,passwordbytes"`
}

// LoginResponse body; the session itself travels in the cookie.
type LoginResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// UserListResponse is the paged user listing.
type UserListResponse struct {
	TotalUsers int64         `json:"totalUsers"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	Users      []domain.User `json:"users"`
}

// AuditEntryResponse renders one audit row.
type AuditEntryResponse struct {
	ID        string         `json:"id"`
	Action    string         `json:"action"`
	ActorID   string         `json:"actorId"`
	TargetID  string         `json:"targetId"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}
