package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"price_wheel/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

var ErrRedisDisabled = errors.New("redis not configured")

// InitRedisRateLimiter initializes a shared Redis client used by the middleware.
// Provide addr (host:port), password and db index. If connection fails, redisClient remains nil
// and middleware will act as fail-open.
func InitRedisRateLimiter(addr, password string, db int) {
	if addr == "" {
		logger.Info("redis not configured, using in-process rate limiting")
		return
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		// on ping failure, disable redis client to keep server available
		logger.Warn("redis unavailable, rate limiting falls back to in-process", "addr", addr, "error", err)
		_ = client.Close()
		return
	}
	redisClient = client
	logger.Info("redis rate limiter ready", "addr", addr)
}

// RedisEnabled reports whether InitRedisRateLimiter connected.
func RedisEnabled() bool {
	return redisClient != nil
}

// PingRedis checks the rate limiter backend for readiness probes.
func PingRedis(ctx context.Context) error {
	if redisClient == nil {
		return ErrRedisDisabled
	}
	return redisClient.Ping(ctx).Err()
}

// CloseRedis releases the shared client.
func CloseRedis() error {
	if redisClient == nil {
		return nil
	}
	err := redisClient.Close()
	redisClient = nil
	return err
}

// RedisRateLimit implements a simple fixed-window rate limiter using Redis INCR/EXPIRE.
// key format: rl:<window_seconds>:<identifier>
func RedisRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			// fallback to allowing requests if Redis not configured
			c.Next()
			return
		}

		ident := c.ClientIP()
		key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + ident
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		val, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			// on Redis error, fail-open (allow) but set header
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}

		if val == 1 {
			redisClient.Expire(ctx, key, window)
		}

		if val > int64(maxRequests) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}

// RateLimit picks the Redis limiter when Redis is up, else the in-process one.
func RateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	if RedisEnabled() {
		return RedisRateLimit(maxRequests, window)
	}
	return SimpleRateLimit(maxRequests, window)
}
