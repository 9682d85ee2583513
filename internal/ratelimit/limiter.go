package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindow increments the counter and starts the window on the first hit,
// returning the new count and the remaining window in milliseconds.
var fixedWindow = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// Result describes the state of one key after an attempt was counted.
type Result struct {
	Allowed    bool
	Count      int
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter counts attempts per key in fixed windows held in Redis, so counters
// survive restarts and are shared between instances.
type Limiter struct {
	client redis.Scripter
	prefix string
	limit  int
	window time.Duration
}

// New creates a limiter allowing limit attempts per window for each key.
func New(client redis.Scripter, prefix string, limit int, window time.Duration) *Limiter {
	return &Limiter{client: client, prefix: prefix, limit: limit, window: window}
}

// Allow counts one attempt for key. The increment is atomic, so parallel
// requests never lose updates.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	vals, err := fixedWindow.Run(ctx, l.client, []string{l.prefix + key}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("rate limit %s: %w", key, err)
	}
	if len(vals) != 2 {
		return Result{}, fmt.Errorf("rate limit %s: unexpected reply %v", key, vals)
	}

	count := int(vals[0])
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:    count <= l.limit,
		Count:      count,
		Limit:      l.limit,
		Remaining:  remaining,
		RetryAfter: time.Duration(vals[1]) * time.Millisecond,
	}, nil
}

// Window returns the configured window length.
func (l *Limiter) Window() time.Duration {
	return l.window
}
