package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/buildlore/heritage-backend/internal/common"
	pkglogger "github.com/buildlore/heritage-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig configures the rate limiter
type RateLimitConfig struct {
	RequestsPerMinute int
	KeyPrefix         string
	Message           string
	// WritesOnly skips GET, HEAD and OPTIONS requests
	WritesOnly bool
}

// DefaultRateLimitConfig returns default rate limit configuration
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 120,
		KeyPrefix:         "heritage:ratelimit:",
		Message:           "too many requests, please retry later",
	}
}

// WriteRateLimitConfig limits mutations per caller, which is where like and comment spam lands
func WriteRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 30,
		KeyPrefix:         "heritage:ratelimit:write:",
		Message:           "too many write requests, please retry later",
		WritesOnly:        true,
	}
}

// rateLimitScript is an atomic Lua script for sliding window rate limiting
var rateLimitScript = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local window_start = now - window

redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
local count = redis.call('ZCARD', key)

if count < limit then
    redis.call('ZADD', key, now, now .. ':' .. math.random(1000000))
    redis.call('EXPIRE', key, math.ceil(window / 1000) + 1)
    return {1, limit - count - 1, 0}
else
    local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
    local reset_at = 0
    if #oldest >= 2 then
        reset_at = tonumber(oldest[2]) + window
    end
    return {0, 0, reset_at}
end
`)

// RateLimit limits requests per caller over a one minute sliding window.
// Authenticated callers are keyed by user id, anonymous ones by client IP.
// Redis failures let the request through.
func RateLimit(redisClient *redis.Client, cfg RateLimitConfig) gin.HandlerFunc {
	const windowMs = int64(60 * 1000)

	return func(c *gin.Context) {
		if redisClient == nil || (cfg.WritesOnly && isReadOnly(c.Request.Method)) {
			c.Next()
			return
		}

		key := cfg.KeyPrefix + "ip:" + c.ClientIP()
		if userID := GetUserID(c); userID != "" {
			key = cfg.KeyPrefix + "user:" + userID
		}

		now := time.Now().UnixMilli()
		result, err := rateLimitScript.Run(c.Request.Context(), redisClient, []string{key},
			cfg.RequestsPerMinute, windowMs, now,
		).Int64Slice()
		if err != nil || len(result) != 3 {
			userLog := pkglogger.WithUserID(GetUserID(c))
			userLog.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable")
			c.Next()
			return
		}

		allowed := result[0] == 1
		remaining := result[1]
		resetAt := result[2]

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerMinute))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if !allowed {
			retryAfter := (resetAt - now) / 1000
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", resetAt/1000))
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			common.AbortWithError(c, http.StatusTooManyRequests, cfg.Message, nil)
			return
		}

		c.Next()
	}
}

func isReadOnly(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}
