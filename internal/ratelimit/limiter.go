// Package ratelimit bounds public intake traffic with a per-IP fixed window
// backed by redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Class names an endpoint group with its own limit.
type Class string

const (
	ClassIntake Class = "intake"
	ClassLogin  Class = "login"
)

// Result is one limit check's outcome.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter counts requests per (class, ip) in fixed windows. The counter key
// expires with the window, so idle clients cost nothing.
type Limiter struct {
	client *redis.Client
	window time.Duration
	limits map[Class]int
}

func NewLimiter(client *redis.Client, window time.Duration, limits map[Class]int) *Limiter {
	return &Limiter{client: client, window: window, limits: limits}
}

// Check increments the window counter and reports whether the request is
// within the class limit.
func (l *Limiter) Check(ctx context.Context, class Class, ip string) (*Result, error) {
	limit, ok := l.limits[class]
	if !ok || limit <= 0 {
		return &Result{Allowed: true, Limit: 0, Remaining: 0}, nil
	}

	windowStart := time.Now().Truncate(l.window)
	key := fmt.Sprintf("ratelimit:%s:%s:%d", class, ip, windowStart.Unix())

	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("rate limit check: %w", err)
	}

	n := int(count.Val())
	result := &Result{
		Allowed:   n <= limit,
		Limit:     limit,
		Remaining: max(limit-n, 0),
	}
	if !result.Allowed {
		result.RetryAfter = time.Until(windowStart.Add(l.window))
	}
	return result, nil
}
