package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// TableRateLimit limits game actions per table (not per IP) using Redis.
// Uses the table id set by JWT, so JWT must run before this.
func TableRateLimit(maxActions int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			// Redis not configured, fail-open
			c.Next()
			return
		}

		tableID := c.GetString("table_id")
		if tableID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		key := "table_rl:" + tableID + ":" + strconv.FormatInt(int64(window.Seconds()), 10)
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		val, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			// On Redis error, fail-open but flag it
			c.Header("X-TableRateLimit-Error", "redis-error")
			c.Next()
			return
		}

		if val == 1 {
			redisClient.Expire(ctx, key, window)
		}

		c.Header("X-TableRateLimit-Limit", strconv.Itoa(maxActions))
		c.Header("X-TableRateLimit-Remaining", strconv.FormatInt(max(0, int64(maxActions)-val), 10))

		if val > int64(maxActions) {
			RLBlocked.WithLabelValues("table:" + c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "table rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues("table:" + c.FullPath()).Inc()
		c.Next()
	}
}
