package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// CookieSettings controls the session cookie attributes.
type CookieSettings struct {
	Name   string
	Secure bool
}

// AuthHandler exposes login and logout.
type AuthHandler struct {
	auth    *service.AuthService
	cookie  CookieSettings
	metrics *observability.Metrics
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cookie CookieSettings, metrics *observability.Metrics) *AuthHandler {
	return &AuthHandler{auth: authService, cookie: cookie, metrics: metrics}
}

// Login handles POST /users/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		outcome := "error"
		if apperrors.Is(err, apperrors.CodeUnauthorized) {
			outcome = "failure"
		}
		h.metrics.RecordLogin(outcome)
		return err
	}
	h.metrics.RecordLogin("success")

	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    result.Cookie,
		Path:     "/",
		MaxAge:   int(h.auth.SessionTTL() / time.Second),
		Expires:  result.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Status(http.StatusOK).JSON(dto.LoginResponse{Message: "Login successful", UserID: result.User.ID})
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	if err := h.auth.Logout(c.UserContext(), principal); err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(dto.MessageResponse{Message: "Logged out successfully"})
}
