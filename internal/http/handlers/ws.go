package handlers

import (
	"net/http"

	"price_wheel/internal/logger"
	"price_wheel/internal/service"
	"price_wheel/internal/ws"

	"github.com/gin-gonic/gin"
)

// WS attaches the connection to the table named by the token in ?token=.
func (h *Handler) WS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
		return
	}

	tableID, err := service.ParseTableToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	table, ok := h.Hub.Table(tableID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "table not found"})
		return
	}

	// WebSocket upgrade; the client's pumps run in their own goroutines
	if err := ws.Serve(&h.Upgrader, c.Writer, c.Request, table); err != nil {
		logger.Warn("ws upgrade error", "table_id", tableID, "error", err)
	}
}
