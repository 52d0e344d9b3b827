// Package ratelimit implements a fixed-window rate limiter on redis, keyed by
// route class and client identity. It is applied to public routes before any
// core logic runs.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Result is the outcome of one limiter check.
type Result struct {
	Allowed   bool
	Remaining int64
	ResetAt   time.Time
}

// Limiter checks request budgets per route class and client.
type Limiter interface {
	Allow(ctx context.Context, routeClass, clientID string) (Result, error)
}

type redisLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewRedisLimiter returns a Limiter allowing limit requests per window for
// each (routeClass, clientID) pair.
func NewRedisLimiter(client *redis.Client, limit int64, window time.Duration) Limiter {
	return &redisLimiter{client: client, limit: limit, window: window}
}

func (l *redisLimiter) key(routeClass, clientID string, now time.Time) string {
	bucket := now.Unix() / int64(l.window.Seconds())
	return fmt.Sprintf("ratelimit:%s:%s:%d", routeClass, clientID, bucket)
}

func (l *redisLimiter) Allow(ctx context.Context, routeClass, clientID string) (Result, error) {
	now := time.Now()
	key := l.key(routeClass, clientID, now)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, err
	}

	count := incr.Val()
	bucket := now.Unix() / int64(l.window.Seconds())
	resetAt := time.Unix((bucket+1)*int64(l.window.Seconds()), 0)
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count <= l.limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}
