package mw

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hptracker/backend/internal/server/resp"
)

const (
	rateLimitKeyPrefix = "hptracker:ratelimit:"
	rateLimitWindow    = time.Second
)

// RateLimit caps requests per second per client IP using a Redis counter
// that expires with the window. When Redis is unreachable the request is
// rejected with 503.
func RateLimit(rdb *redis.Client, limitPerSec int, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rateLimitKeyPrefix + c.ClientIP()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			logger.Warn("rate limit check failed", zap.Error(err))
			resp.AbortWithError(c, http.StatusServiceUnavailable, "service unavailable")
			return
		}
		if count == 1 {
			rdb.Expire(ctx, key, rateLimitWindow)
		}
		if ttl, _ := rdb.TTL(ctx, key).Result(); ttl < 0 {
			rdb.Expire(ctx, key, rateLimitWindow)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limitPerSec))
		if count > int64(limitPerSec) {
			c.Header("Retry-After", "1")
			resp.AbortWithError(c, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		c.Next()
	}
}
