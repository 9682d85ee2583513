package service

import (
	"context"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/session"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// AuthService coordinates login and logout.
type AuthService struct {
	users    *UserService
	sessions session.Store
	signer   *auth.CookieSigner
	audit    *AuditService
}

// LoginResult carries what the handler needs to bind the session to the client.
type LoginResult struct {
	User      *domain.User
	Cookie    string
	ExpiresAt time.Time
}

// NewAuthService builds the service.
func NewAuthService(users *UserService, sessions session.Store, signer *auth.CookieSigner, audit *AuditService) *AuthService {
	return &AuthService{users: users, sessions: sessions, signer: signer, audit: audit}
}

// Login verifies credentials and opens a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.Verify(ctx, email, password)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Create(ctx, user.ID, nil)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	cookie, err := s.signer.Sign(sess.Token, sess.ExpiresAt)
	if err != nil {
		_ = s.sessions.Destroy(ctx, sess.Token)
		return nil, apperrors.NewInternalError(err)
	}

	s.audit.Publish(ctx, events.EventLogin, user.ID, user.ID, nil)
	return &LoginResult{User: user, Cookie: cookie, ExpiresAt: sess.ExpiresAt}, nil
}

// Logout destroys the session; later requests with the same cookie are rejected.
func (s *AuthService) Logout(ctx context.Context, principal *auth.Principal) error {
	if principal == nil || principal.Session == nil {
		return nil
	}
	if err := s.sessions.Destroy(ctx, principal.Session.Token); err != nil {
		return apperrors.NewStoreFailure(err)
	}
	s.audit.Publish(ctx, events.EventLogout, principal.UserID, principal.UserID, nil)
	return nil
}

// SessionTTL is the cookie max-age.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessions.TTL()
}
