// Package ratelimit implements a fixed-window request limiter backed by
// Redis. A window opens with INCR; the first hit sets the window expiry.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Policy names a limit: at most Max hits per Window per key.
type Policy struct {
	Name   string
	Max    int
	Window time.Duration
}

// Limiter counts hits per (policy, key) in Redis.
type Limiter struct {
	rdb *redis.Client
}

func NewLimiter(rdb *redis.Client) *Limiter {
	return &Limiter{rdb: rdb}
}

// Allow records a hit for key under the policy and reports whether the hit is
// within the limit. A Redis failure is returned as an error and decides
// nothing; callers choose whether to fail open or closed.
func (l *Limiter) Allow(ctx context.Context, p Policy, key string) (bool, error) {
	bucket := p.Name + ":" + key

	count, err := l.rdb.Incr(ctx, bucket).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, bucket, p.Window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return count <= int64(p.Max), nil
}
