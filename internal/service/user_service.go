package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

const (
	invalidCredentials = "Invalid email or password"
	passwordTooLong    = "password must be at most 72 bytes"
)

// UserService is the credential store and the admin user-management API.
type UserService struct {
	users      repository.UserRepository
	audit      *AuditService
	bcryptCost int
}

// UserCreateInput describes a new account.
type UserCreateInput struct {
	Username    string
	Email       string
	Password    string
	Role        domain.Role
	Permissions []string
	Status      domain.UserStatus
}

// UserUpdateInput is the admin-editable profile.
type UserUpdateInput struct {
	Username string
	Email    string
	Role     domain.Role
}

// NewUserService constructs the service.
func NewUserService(cfg config.AuthConfig, users repository.UserRepository, audit *AuditService) *UserService {
	return &UserService{users: users, audit: audit, bcryptCost: cfg.BcryptCost}
}

// Create registers an account. Omitted role and status default to user/active.
func (s *UserService) Create(ctx context.Context, actorID string, input UserCreateInput) (*domain.User, error) {
	if input.Role == "" {
		input.Role = domain.RoleUser
	}
	if input.Status == "" {
		input.Status = domain.UserStatusActive
	}
	if !input.Role.IsValid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
	}
	if !input.Status.IsValid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": input.Status})
	}
	if input.Password == "" {
		return nil, apperrors.NewValidationError("password is required", nil)
	}
	permissions := input.Permissions
	if permissions == nil {
		permissions = []string{}
	}

	user := &domain.User{
		Username:    strings.TrimSpace(input.Username),
		Email:       normalizeEmail(input.Email),
		Password:    input.Password,
		Role:        input.Role,
		Permissions: permissions,
		Status:      input.Status,
	}
	if err := s.hashPending(user); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, userWriteError(err, user.Email)
	}

	s.audit.Publish(ctx, events.EventUserCreated, actorID, user.ID, map[string]any{"role": user.Role})
	return user, nil
}

// Verify checks credentials. Every failure, including an unknown email or an
// inactive account, yields the same Unauthorized error.
func (s *UserService) Verify(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		auth.BurnComparison(password)
		return nil, apperrors.NewUnauthorized(invalidCredentials)
	}
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized(invalidCredentials)
	}
	if user.Status != domain.UserStatusActive {
		return nil, apperrors.NewUnauthorized(invalidCredentials)
	}
	return user, nil
}

// List returns one page of users and the total count.
func (s *UserService) List(ctx context.Context, p Pagination) ([]domain.User, int64, error) {
	users, total, err := s.users.List(ctx, p.window())
	if err != nil {
		return nil, 0, storeError(err, "User")
	}
	return users, total, nil
}

// Search matches term case-insensitively against username and email.
func (s *UserService) Search(ctx context.Context, term string, p Pagination) ([]domain.User, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperrors.NewValidationError("query is required", nil)
	}
	users, err := s.users.Search(ctx, term, p.window())
	if err != nil {
		return nil, storeError(err, "User")
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "User")
	}
	return user, nil
}

// Update replaces username, email and role. The password hash is untouched.
func (s *UserService) Update(ctx context.Context, actorID, id string, input UserUpdateInput) (*domain.User, error) {
	if !input.Role.IsValid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
	}
	current, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "User")
	}

	profile := repository.UserProfile{
		Username: strings.TrimSpace(input.Username),
		Email:    normalizeEmail(input.Email),
		Role:     input.Role,
	}
	user, err := s.users.UpdateProfile(ctx, id, profile)
	if err != nil {
		return nil, userWriteError(err, profile.Email)
	}

	payload := map[string]any{"username": user.Username, "email": user.Email}
	if current.Role != user.Role {
		payload["previousRole"] = current.Role
		payload["role"] = user.Role
	}
	s.audit.Publish(ctx, events.EventUserUpdated, actorID, user.ID, payload)
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, actorID, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return storeError(err, "User")
	}
	s.audit.Publish(ctx, events.EventUserDeleted, actorID, id, nil)
	return nil
}

// AssignRole changes only the role and returns the updated account.
func (s *UserService) AssignRole(ctx context.Context, actorID, id string, role domain.Role) (*domain.User, error) {
	if !role.IsValid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": role})
	}
	user, err := s.users.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, storeError(err, "User")
	}
	s.audit.Publish(ctx, events.EventRoleAssigned, actorID, id, map[string]any{"role": role})
	return user, nil
}

// ChangePassword replaces the caller's password after checking the old one.
func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return storeError(err, "User")
	}
	if err := auth.ComparePassword(user.PasswordHash, oldPassword); err != nil {
		return apperrors.NewUnauthorized("Invalid old password")
	}

	user.Password = newPassword
	if err := s.hashPending(user); err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, user.PasswordHash); err != nil {
		return storeError(err, "User")
	}
	s.audit.Publish(ctx, events.EventPasswordChanged, userID, userID, nil)
	return nil
}

// hashPending hashes a pending plaintext exactly once. A user with no pending
// password keeps the stored hash as is.
func (s *UserService) hashPending(user *domain.User) error {
	if !user.PasswordChanged() {
		return nil
	}
	hash, err := auth.HashPassword(user.Password, s.bcryptCost)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return apperrors.NewValidationError(passwordTooLong, map[string]any{"errors": []string{passwordTooLong}})
	}
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	user.Password = ""
	return nil
}

func userWriteError(err error, email string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return apperrors.NewDuplicate("A user with this email already exists", map[string]any{"email": email})
	}
	return storeError(err, "User")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
