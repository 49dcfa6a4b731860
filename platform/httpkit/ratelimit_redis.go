package httpkit

import (
	"context"
	"fmt"
	"time"

	"leadportal_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter is a fixed-window limiter shared by every API instance.
// It fails open: when Redis is unreachable the request is allowed and the
// error is logged.
type RedisRateLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
	log    *logger.Logger
	now    func() time.Time
}

// NewRedisRateLimiter creates a limiter allowing limit requests per window.
func NewRedisRateLimiter(client *redis.Client, prefix string, limit int, window time.Duration, log *logger.Logger) *RedisRateLimiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RedisRateLimiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
		log:    log,
		now:    time.Now,
	}
}

// Allow implements Limiter.
func (r *RedisRateLimiter) Allow(ctx context.Context, key string) bool {
	bucket := r.now().UnixNano() / int64(r.window)
	redisKey := fmt.Sprintf("ratelimit:%s:%s:%d", r.prefix, key, bucket)

	count, err := r.client.Incr(ctx, redisKey).Result()
	if err != nil {
		if r.log != nil {
			r.log.Warn("rate limiter unavailable", "error", err.Error())
		}
		return true
	}
	// Set expiry only on first increment
	if count == 1 {
		r.client.Expire(ctx, redisKey, r.window)
	}
	return count <= int64(r.limit)
}
