package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore keeps sessions as JSON values whose key TTL equals the session TTL.
type RedisStore struct {
	logger *zap.Logger
	client redis.Cmdable
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(logger *zap.Logger, client redis.Cmdable, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "session:"
	}
	return &RedisStore{
		logger: logger.Named("session.store.redis"),
		client: client,
		prefix: prefix,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *RedisStore) Create(ctx context.Context, userID string, data map[string]any) (*Session, error) {
	sess, err := newSession(userID, data, s.ttl, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}

	// SetNX guards against the astronomically unlikely token collision.
	ok, err := s.client.SetNX(ctx, s.prefix+sess.Token, payload, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	if !ok {
		return nil, errors.New("session token collision")
	}

	s.logger.Debug("session created", zap.String("user_id", userID))
	return sess, nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}
	raw, err := s.client.Get(ctx, s.prefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		s.logger.Warn("discarding corrupt session record", zap.Error(err))
		return nil, ErrSessionNotFound
	}
	if sess.Expired(s.now().UTC()) {
		return nil, ErrSessionNotFound
	}
	return &sess, nil
}

func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.prefix+token).Err(); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

func (s *RedisStore) TTL() time.Duration {
	return s.ttl
}
