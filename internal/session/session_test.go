package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
)

func TestNewToken(t *testing.T) {
	a, err := NewToken()
	require.NoError(t, err)
	b, err := NewToken()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 43)
}

func TestSessionExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	sess := &Session{CreatedAt: now, ExpiresAt: now.Add(time.Hour)}

	assert.False(t, sess.Expired(now))
	assert.False(t, sess.Expired(now.Add(59*time.Minute)))
	assert.True(t, sess.Expired(now.Add(time.Hour)))
}

func TestNewStore_RejectsMissingBackends(t *testing.T) {
	ctx := context.Background()

	_, err := NewStore(ctx, zap.NewNop(), config.SessionConfig{Backend: "redis"}, nil, nil)
	assert.Error(t, err)
	_, err = NewStore(ctx, zap.NewNop(), config.SessionConfig{Backend: "mongo"}, nil, nil)
	assert.Error(t, err)
	_, err = NewStore(ctx, zap.NewNop(), config.SessionConfig{Backend: "memory"}, nil, nil)
	assert.Error(t, err)
}
