package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"price_wheel/internal/http/middleware"
	"price_wheel/internal/ws"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	hub       *ws.Hub
	startTime time.Time
	version   string
	pingRedis func(context.Context) error
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(hub *ws.Hub, version string) *HealthHandler {
	return &HealthHandler{
		hub:       hub,
		startTime: time.Now(),
		version:   version,
		pingRedis: middleware.PingRedis,
	}
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version,omitempty"`
	Uptime    string            `json:"uptime,omitempty"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Liveness returns simple alive status (for k8s liveness probe)
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness returns detailed health status (for k8s readiness probe).
// A missing Redis is reported but does not fail the probe: rate limiting
// falls back to in-process counters.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	allHealthy := true

	switch err := h.pingRedis(ctx); {
	case err == nil:
		checks["redis"] = "healthy"
	case errors.Is(err, middleware.ErrRedisDisabled):
		checks["redis"] = "disabled"
	default:
		checks["redis"] = "unhealthy: " + err.Error()
		allHealthy = false
	}

	checks["tables"] = fmt.Sprintf("%d", h.hub.Len())

	// Memory check
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	checks["memory_alloc_mb"] = formatMB(m.Alloc)

	status := "healthy"
	statusCode := http.StatusOK
	if !allHealthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, HealthResponse{
		Status:    status,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

// Health is a combined endpoint for basic health checks
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
		"tables":  h.hub.Len(),
	})
}

func formatMB(bytes uint64) string {
	mb := float64(bytes) / 1024 / 1024
	return fmt.Sprintf("%.2f", mb)
}
