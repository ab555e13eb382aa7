package middleware

import (
	"errors"
	"net/http"
	"strings"

	"price_wheel/internal/service"

	"github.com/gin-gonic/gin"
)

// JWT requires "Authorization: Bearer <table token>" and stores the table id
// under "table_id".
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		tableID, err := service.ParseTableToken(token)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, service.ErrTokenExpired) {
				msg = "token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		c.Set("table_id", tableID)
		c.Next()
	}
}
