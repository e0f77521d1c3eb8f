package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter decides whether a chat may submit another message.
type RateLimiter interface {
	Allow(ctx context.Context, chatID int64) (bool, error)
}

type redisRateLimiter struct {
	client *redis.Client
	limit  int
	now    func() time.Time
}

// NewRedisRateLimiter allows up to limit messages per chat per clock minute.
// A limit of 0 or less disables limiting.
func NewRedisRateLimiter(client *redis.Client, limit int) RateLimiter {
	return &redisRateLimiter{client: client, limit: limit, now: time.Now}
}

func (r *redisRateLimiter) Allow(ctx context.Context, chatID int64) (bool, error) {
	if r.limit <= 0 {
		return true, nil
	}

	key := RateLimitKey(chatID, r.now())

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 2*time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit counter: %w", err)
	}

	return incr.Val() <= int64(r.limit), nil
}

// RateLimitKey is the fixed-window counter key for a chat at t.
func RateLimitKey(chatID int64, t time.Time) string {
	return fmt.Sprintf("sawmill:ratelimit:%d:%d", chatID, t.Unix()/60)
}
