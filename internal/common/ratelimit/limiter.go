// Redis-backed fixed-window rate limiting for discovery actions

package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Limit caps an action at Max occurrences per Window.
type Limit struct {
	Max    int
	Window time.Duration
}

// Limiter implements a fixed-window counter per user and action. Counting is
// advisory: callers are expected to fail open if Redis is unreachable, since
// discovery availability outranks strict enforcement.
type Limiter struct {
	client *redis.Client
	limits map[string]Limit
}

func NewLimiter(client *redis.Client, limits map[string]Limit) *Limiter {
	return &Limiter{
		client: client,
		limits: limits,
	}
}

// Allow reports whether userID may perform action within the current window.
// Unknown actions and a nil client are unlimited.
func (l *Limiter) Allow(ctx context.Context, userID, action string) (bool, error) {
	limit, ok := l.limits[action]
	if !ok || limit.Max <= 0 || l.client == nil {
		return true, nil
	}

	key := windowKey(userID, action, time.Now(), limit.Window)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return true, fmt.Errorf("rate limit incr: %w", err)
	}
	if count == 1 {
		// First hit in this window owns setting the expiry.
		l.client.Expire(ctx, key, limit.Window)
	}

	return count <= int64(limit.Max), nil
}

// windowKey buckets time into fixed windows so every request in the same
// window increments the same counter.
func windowKey(userID, action string, now time.Time, window time.Duration) string {
	bucket := now.UnixNano() / int64(window)
	return fmt.Sprintf("ratelimit:%s:%s:%d", userID, action, bucket)
}
