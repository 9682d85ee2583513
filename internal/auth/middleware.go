package auth

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/session"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	UserID  string
	Session *session.Session
	// User is populated once a role check has re-read the account.
	User *domain.User
}

// UserFinder is the slice of the user repository the gates need.
type UserFinder interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// AuthMiddleware resolves the session cookie and enforces role requirements.
type AuthMiddleware struct {
	sessions   session.Store
	signer     *CookieSigner
	users      UserFinder
	cookieName string
	logger     *zap.Logger
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(sessions session.Store, signer *CookieSigner, users UserFinder, cookieName string, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		sessions:   sessions,
		signer:     signer,
		users:      users,
		cookieName: cookieName,
		logger:     logger.Named("auth"),
	}
}

// Handle rejects requests without a live session before any handler runs.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	raw := c.Cookies(m.cookieName)
	if raw == "" {
		return apperrors.NewUnauthorized("Unauthorized: Please log in to access this resource")
	}

	token, err := m.signer.Parse(raw)
	if err != nil {
		return apperrors.NewUnauthorized("Unauthorized: Please log in to access this resource")
	}

	sess, err := m.sessions.Get(c.UserContext(), token)
	if errors.Is(err, session.ErrSessionNotFound) {
		return apperrors.NewUnauthorized("Unauthorized: Please log in to access this resource")
	}
	if err != nil {
		return apperrors.NewStoreFailure(err)
	}

	c.Locals(principalKey, &Principal{UserID: sess.UserID, Session: sess})
	return c.Next()
}

// RequireRole re-reads the caller's account on every request so a revoked
// role takes effect without a new login.
func (m *AuthMiddleware) RequireRole(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("Unauthorized: Please log in")
		}

		user, err := m.users.GetByID(c.UserContext(), principal.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("User", nil)
		}
		if err != nil {
			return apperrors.NewStoreFailure(err)
		}

		if user.Role != role {
			m.logger.Info("role check failed",
				zap.String("user_id", user.ID),
				zap.String("required", string(role)),
				zap.String("actual", string(user.Role)))
			return apperrors.NewForbidden("Forbidden: You do not have the required permissions")
		}

		principal.User = user
		return c.Next()
	}
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
