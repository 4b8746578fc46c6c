package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIKey guards a route group with a shared key. An empty expected key
// disables the check (local development).
func APIKey(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if expected == "" {
			c.Next()
			return
		}
		if c.GetHeader("X-API-Key") != expected {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			return
		}
		c.Next()
	}
}
