// Package ratelimit throttles per-user actions with a redis SETNX lock.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter allows one action per user per window. A nil client disables limiting.
type Limiter struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Limiter {
	return &Limiter{rdb: rdb}
}

func key(userID uint, action string) string {
	return fmt.Sprintf("rate_limit:user:%d:%s", userID, action)
}

// Allow reports whether the user may perform action now and, when allowed, starts a
// new window.
func (l *Limiter) Allow(ctx context.Context, userID uint, action string, window time.Duration) (bool, error) {
	if l == nil || l.rdb == nil || window <= 0 {
		return true, nil
	}

	wasSet, err := l.rdb.SetNX(ctx, key(userID, action), "locked", window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

// RetryAfter returns how long until the current window for action expires.
func (l *Limiter) RetryAfter(ctx context.Context, userID uint, action string) (time.Duration, error) {
	if l == nil || l.rdb == nil {
		return 0, nil
	}
	return l.rdb.TTL(ctx, key(userID, action)).Result()
}

// Clear releases the window, used when the throttled action failed.
func (l *Limiter) Clear(ctx context.Context, userID uint, action string) error {
	if l == nil || l.rdb == nil {
		return nil
	}
	_, err := l.rdb.Del(ctx, key(userID, action)).Result()
	return err
}
