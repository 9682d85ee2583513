package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/session"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

func newAuthFixture(t *testing.T) (*AuthService, *UserService, session.Store, *auth.CookieSigner, *miniredis.Miniredis, *eventLog) {
	t.Helper()
	users, _, log := newAuditedUserService(t)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := session.NewRedisStore(zap.NewNop(), client, "session:", 24*time.Hour)
	signer := auth.NewCookieSigner("test-secret")

	return NewAuthService(users, store, signer, users.audit), users, store, signer, mr, log
}

func TestLoginOpensSessionBoundToCookie(t *testing.T) {
	svc, users, store, signer, _, log := newAuthFixture(t)
	ctx := context.Background()
	user := mustCreateUser(t, users, "login@example.com", "password123", domain.RoleAdmin)

	result, err := svc.Login(ctx, "login@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	assert.Equal(t, 24*time.Hour, svc.SessionTTL())

	token, err := signer.Parse(result.Cookie)
	require.NoError(t, err)
	sess, err := store.Get(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, sess.UserID)
	assert.Equal(t, sess.ExpiresAt.Unix(), result.ExpiresAt.Unix())
	assert.Equal(t, events.EventLogin, log.last().Type)
}

func TestLoginFailuresLookIdentical(t *testing.T) {
	svc, users, _, _, mr, _ := newAuthFixture(t)
	mustCreateUser(t, users, "login@example.com", "password123", domain.RoleUser)

	_, unknown := svc.Login(context.Background(), "ghost@example.com", "password123")
	_, wrong := svc.Login(context.Background(), "login@example.com", "password124")

	assert.Equal(t, apperrors.ToDomainError(unknown).Message, apperrors.ToDomainError(wrong).Message)
	requireCode(t, unknown, apperrors.CodeUnauthorized)
	assert.Empty(t, mr.Keys())
}

func TestLogoutInvalidatesSession(t *testing.T) {
	svc, users, store, signer, _, log := newAuthFixture(t)
	ctx := context.Background()
	mustCreateUser(t, users, "out@example.com", "password123", domain.RoleUser)

	result, err := svc.Login(ctx, "out@example.com", "password123")
	require.NoError(t, err)
	token, err := signer.Parse(result.Cookie)
	require.NoError(t, err)
	sess, err := store.Get(ctx, token)
	require.NoError(t, err)

	principal := &auth.Principal{UserID: sess.UserID, Session: sess}
	require.NoError(t, svc.Logout(ctx, principal))
	assert.Equal(t, events.EventLogout, log.last().Type)

	_, err = store.Get(ctx, token)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	// second logout with the same principal is harmless
	assert.NoError(t, svc.Logout(ctx, principal))
}

func TestLoginSessionStoreDown(t *testing.T) {
	svc, users, _, _, mr, _ := newAuthFixture(t)
	mustCreateUser(t, users, "down@example.com", "password123", domain.RoleUser)
	mr.Close()

	_, err := svc.Login(context.Background(), "down@example.com", "password123")
	requireCode(t, err, apperrors.CodeStoreFailure)
}
