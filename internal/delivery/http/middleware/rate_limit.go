package middleware

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/CTNinc/keinomori-summerlp2025/pkg/apperror"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Custom key extractor (default: IP-based)
	KeyFunc func(*gin.Context) string
	// Key prefix for Redis
	KeyPrefix string
	// Redis client; nil uses the in-memory store
	Redis *goredis.Client
}

// rateLimitEntry tracks request count for a key (in-memory fallback)
type rateLimitEntry struct {
	count   int
	resetAt time.Time
	mu      sync.Mutex
}

// memoryLimiter is the per-middleware in-memory store
type memoryLimiter struct {
	entries sync.Map
	lastGC  time.Time
	gcMu    sync.Mutex
}

// Atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: [current_count, ttl_remaining]
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

// InquiryRateLimitConfig returns the config for the submission endpoint
func InquiryRateLimitConfig(limit int, window time.Duration, client *goredis.Client) RateLimitConfig {
	return clientIPRateLimitConfig("rl:inquiry:", limit, window, client)
}

// TokenRateLimitConfig returns the config for the token issuing routes.
// Every issued token occupies the token store until it expires.
func TokenRateLimitConfig(limit int, window time.Duration, client *goredis.Client) RateLimitConfig {
	return clientIPRateLimitConfig("rl:token:", limit, window, client)
}

func clientIPRateLimitConfig(prefix string, limit int, window time.Duration, client *goredis.Client) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: prefix,
		Redis:     client,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// RateLimitMiddleware creates a rate limiting middleware with the given config.
// Uses Redis when available and falls back to memory on Redis errors (fail open).
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	store := &memoryLimiter{}

	return func(c *gin.Context) {
		fullKey := config.KeyPrefix + config.KeyFunc(c)
		now := time.Now()

		var count int
		var resetAt time.Time
		var err error

		if config.Redis != nil {
			count, resetAt, err = checkRateLimitRedis(c.Request.Context(), config.Redis, fullKey, config)
			if err != nil {
				log := Logger(c)
				log.Warn().Err(err).Msg("rate limit falling back to memory")
				count, resetAt = store.check(fullKey, config, now)
			}
		} else {
			count, resetAt = store.check(fullKey, config, now)
		}

		if count > config.Limit {
			retryAfter := int(time.Until(resetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}

			c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			log := Logger(c)
			log.Warn().Str("key", fullKey).Int("count", count).Msg("rate limit triggered")

			_ = c.Error(apperror.TooManyRequests("送信回数が上限に達しました。しばらく時間をおいて再度お試しください。"))
			c.Abort()
			return
		}

		remaining := config.Limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		c.Next()
	}
}

// checkRateLimitRedis checks rate limit using Redis with atomic Lua script
func checkRateLimitRedis(ctx context.Context, client *goredis.Client, key string, config RateLimitConfig) (int, time.Time, error) {
	ttlSeconds := int(config.Window.Seconds())

	result, err := client.Eval(ctx, rateLimitLuaScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}

	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	return int(count), time.Now().Add(time.Duration(ttl) * time.Second), nil
}

// check increments the counter for key, resetting it when its window expired
func (m *memoryLimiter) check(key string, config RateLimitConfig, now time.Time) (int, time.Time) {
	m.collect(now)

	entryI, _ := m.entries.LoadOrStore(key, &rateLimitEntry{
		resetAt: now.Add(config.Window),
	})
	entry := entryI.(*rateLimitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if now.After(entry.resetAt) {
		entry.count = 0
		entry.resetAt = now.Add(config.Window)
	}
	entry.count++

	return entry.count, entry.resetAt
}

// collect drops expired entries at most every five minutes
func (m *memoryLimiter) collect(now time.Time) {
	m.gcMu.Lock()
	defer m.gcMu.Unlock()
	if now.Sub(m.lastGC) < 5*time.Minute {
		return
	}
	m.lastGC = now

	m.entries.Range(func(key, value interface{}) bool {
		entry := value.(*rateLimitEntry)
		entry.mu.Lock()
		if now.After(entry.resetAt) {
			m.entries.Delete(key)
		}
		entry.mu.Unlock()
		return true
	})
}
