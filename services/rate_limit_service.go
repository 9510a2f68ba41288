package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiterInterface defines the contract for rate limiting operations.
type RateLimiterInterface interface {
	// CheckLimit counts one hit on key. It reports whether the hit is allowed,
	// how many hits remain in the window, and when the window resets.
	CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (RateLimitResult, error)
}

type RateLimitResult struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// RateLimitService is a fixed-window counter in Redis: INCR, and start the
// window with EXPIRE NX on the first hit.
type RateLimitService struct {
	redis     redis.UniversalClient
	keyPrefix string
}

var _ RateLimiterInterface = (*RateLimitService)(nil)

func NewRateLimitService(client redis.UniversalClient) *RateLimitService {
	return &RateLimitService{
		redis:     client,
		keyPrefix: "planner:ratelimit:",
	}
}

func (s *RateLimitService) CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (RateLimitResult, error) {
	rKey := s.keyPrefix + key

	pipe := s.redis.TxPipeline()
	incr := pipe.Incr(ctx, rKey)
	pipe.ExpireNX(ctx, rKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return RateLimitResult{}, fmt.Errorf("rate limit pipeline failed: %w", err)
	}

	count := incr.Val()
	if count <= int64(limit) {
		return RateLimitResult{Allowed: true, Remaining: limit - int(count)}, nil
	}

	ttl, err := s.redis.TTL(ctx, rKey).Result()
	if err != nil || ttl <= 0 {
		ttl = window
	}
	return RateLimitResult{Allowed: false, RetryAfter: ttl}, nil
}
