package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func initRedisFromEnv(t *testing.T) {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}
	InitRedisRateLimiter(addr, os.Getenv("REDIS_PASSWORD"), db)
	if !RedisEnabled() {
		t.Skip("redis did not answer ping")
	}
	t.Cleanup(func() { _ = CloseRedis() })
}

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestRedisRateLimitIntegration(t *testing.T) {
	initRedisFromEnv(t)
	gin.SetMode(gin.TestMode)

	// small window for test
	w := 2 * time.Second
	limit := 2

	r := gin.New()
	r.GET("/test", RedisRateLimit(limit, w), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	for i := 0; i < limit; i++ {
		res, err := http.Get(srv.URL + "/test")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		res.Body.Close()
		if res.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 got %d", res.StatusCode)
		}
	}

	res, err := http.Get(srv.URL + "/test")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", res.StatusCode)
	}
}

func TestTableRateLimitIntegration(t *testing.T) {
	initRedisFromEnv(t)
	gin.SetMode(gin.TestMode)

	tableID := "rl-" + strconv.FormatInt(time.Now().UnixNano(), 10)
	r := gin.New()
	r.POST("/act", func(c *gin.Context) { c.Set("table_id", tableID) }, TableRateLimit(1, 2*time.Second), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/act", nil))
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusNoContent || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}
}
