package http

import (
	"price_wheel/internal/config"
	"price_wheel/internal/http/handlers"
	"price_wheel/internal/http/middleware"
	"price_wheel/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(r *gin.Engine, hub *ws.Hub, cfg *config.Config, version string) {
	h := handlers.NewHandler(hub, cfg.TokenTTL, cfg.AllowedOrigin)
	healthHandler := handlers.NewHealthHandler(hub, version)

	r.Use(middleware.Metrics())

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	registerAPIRoutes(v1, h, cfg)

	// WebSocket controlling a table
	r.GET("/ws", h.WS)
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, cfg *config.Config) {
	// Game rate limiter middleware (per table, not per IP)
	tableRL := middleware.TableRateLimit(cfg.GameRateLimit, cfg.GameRateWindow)

	api.GET("/wheel/info", h.WheelInfo)

	api.POST("/tables", h.CreateTable)
	tables := api.Group("/tables/:id")
	tables.Use(middleware.JWT())
	{
		tables.GET("", h.GetTable)
		tables.POST("/new-game", tableRL, h.NewGame)
	}
}
