package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// RequireSelf allows the request only when the route parameter names the
// caller's own account. Role is irrelevant.
func RequireSelf(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("Unauthorized: Please log in")
		}
		if principal.UserID == "" || principal.UserID != c.Params(param) {
			return apperrors.NewForbidden("Forbidden: You can only change your own password")
		}
		return c.Next()
	}
}

// OptionalSession runs the session check only when enabled; otherwise the
// route stays open.
func OptionalSession(enabled bool, gate fiber.Handler) fiber.Handler {
	if enabled {
		return gate
	}
	return func(c *fiber.Ctx) error {
		return c.Next()
	}
}
