package handlers

import (
	"time"

	"price_wheel/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type Handler struct {
	Hub      *ws.Hub
	TokenTTL time.Duration
	Upgrader websocket.Upgrader
}

func NewHandler(hub *ws.Hub, tokenTTL time.Duration, allowedOrigin string) *Handler {
	return &Handler{
		Hub:      hub,
		TokenTTL: tokenTTL,
		Upgrader: ws.NewUpgrader(allowedOrigin),
	}
}

// getTableID извлекает table_id, положенный JWT middleware
func getTableID(c *gin.Context) (string, bool) {
	id := c.GetString("table_id")
	return id, id != ""
}
