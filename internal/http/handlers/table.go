package handlers

import (
	"errors"
	"net/http"

	"price_wheel/internal/logger"
	"price_wheel/internal/service"
	"price_wheel/internal/ws"

	"github.com/gin-gonic/gin"
)

// CreateTableResponse is returned by POST /tables.
type CreateTableResponse struct {
	TableID string `json:"table_id"`
	Token   string `json:"token"`
}

// CreateTable opens a new table and issues its controlling token.
func (h *Handler) CreateTable(c *gin.Context) {
	t := h.Hub.CreateTable()

	token, err := service.GenerateTableToken(t.ID, h.TokenTTL)
	if err != nil {
		h.Hub.Remove(t.ID)
		logger.Error("token generation failed", "table_id", t.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusCreated, CreateTableResponse{TableID: t.ID, Token: token})
}

// GetTable returns the scoreboard snapshot of the caller's table.
func (h *Handler) GetTable(c *gin.Context) {
	t, ok := h.authorizedTable(c)
	if !ok {
		return
	}

	snap, err := t.Snapshot()
	if err != nil {
		h.tableGone(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// NewGame resets the caller's table.
func (h *Handler) NewGame(c *gin.Context) {
	t, ok := h.authorizedTable(c)
	if !ok {
		return
	}

	action, err := t.NewGame()
	if err != nil {
		h.tableGone(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"action": action})
}

// authorizedTable checks that the token's table matches :id and is still open.
func (h *Handler) authorizedTable(c *gin.Context) (*ws.Table, bool) {
	tableID, ok := getTableID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "table not found in token"})
		return nil, false
	}
	if id := c.Param("id"); id != tableID {
		c.JSON(http.StatusForbidden, gin.H{"error": "token is for another table"})
		return nil, false
	}

	t, ok := h.Hub.Table(tableID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "table not found"})
		return nil, false
	}
	return t, true
}

func (h *Handler) tableGone(c *gin.Context, err error) {
	if errors.Is(err, ws.ErrTableClosed) {
		c.JSON(http.StatusNotFound, gin.H{"error": "table closed"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
