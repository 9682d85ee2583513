package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"
)

// ErrSessionNotFound is returned for absent, expired or destroyed sessions.
var ErrSessionNotFound = errors.New("session not found")

// Session is the server-side record behind an opaque session token.
type Session struct {
	Token     string         `json:"token" bson:"_id"`
	UserID    string         `json:"userId" bson:"userId"`
	CreatedAt time.Time      `json:"createdAt" bson:"createdAt"`
	ExpiresAt time.Time      `json:"expiresAt" bson:"expiresAt"`
	Data      map[string]any `json:"data,omitempty" bson:"data,omitempty"`
}

// Expired reports whether the fixed TTL has elapsed at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store owns session records. Implementations must be safe for concurrent use.
type Store interface {
	// Create persists a new session for userID and returns it with a fresh token.
	Create(ctx context.Context, userID string, data map[string]any) (*Session, error)

	// Get returns ErrSessionNotFound when the token is unknown or expired.
	Get(ctx context.Context, token string) (*Session, error)

	// Destroy removes the session. Unknown tokens are not an error.
	Destroy(ctx context.Context, token string) error

	// TTL is the fixed lifetime applied at creation.
	TTL() time.Duration
}

const tokenBytes = 32

// NewToken returns a cryptographically random, URL-safe session token.
func NewToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func newSession(userID string, data map[string]any, ttl time.Duration, now time.Time) (*Session, error) {
	token, err := NewToken()
	if err != nil {
		return nil, err
	}
	return &Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		Data:      data,
	}, nil
}
