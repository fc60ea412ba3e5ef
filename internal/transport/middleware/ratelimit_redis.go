package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RedisLimiter shares fixed-window counters across instances. When Redis cannot
// answer it defers to the in-process fallback.
type RedisLimiter struct {
	client   redis.Scripter
	script   *redis.Script
	fallback Limiter
	timeout  time.Duration
	logger   *slog.Logger
}

func NewRedisLimiter(client redis.Scripter, fallback Limiter, logger *slog.Logger) *RedisLimiter {
	if fallback == nil {
		fallback = NewRateLimiter()
	}
	return &RedisLimiter{
		client:   client,
		script:   redis.NewScript(rateLimitScript),
		fallback: fallback,
		timeout:  250 * time.Millisecond,
		logger:   logger,
	}
}

func (l *RedisLimiter) Allow(key string, limit int, window time.Duration) bool {
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	if l.client == nil {
		return l.fallback.Allow(key, limit, window)
	}

	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	allowed, err := l.script.Run(ctx, l.client, []string{key}, ttl, limit).Int64()
	if err != nil {
		l.logger.Warn("redis rate limiter unavailable, using in-memory fallback", "error", err)
		return l.fallback.Allow(key, limit, window)
	}
	return allowed == 1
}

// NewLimiter connects to redisURL when set and falls back to memory otherwise.
func NewLimiter(redisURL string, logger *slog.Logger) (Limiter, func() error, error) {
	memory := NewRateLimiter()
	if redisURL == "" {
		return memory, func() error { return nil }, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not reachable at startup, rate limits fall back to memory until it is", "error", err)
	}

	return NewRedisLimiter(client, memory, logger), client.Close, nil
}
