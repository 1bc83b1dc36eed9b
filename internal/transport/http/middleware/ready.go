package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Readiness interface {
	IsReady() bool
}

// Ready answers 503 until the store is connected and its schema applied.
func Ready(r Readiness) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !r.IsReady() {
			c.Header("Retry-After", "5")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "Service unavailable"})
			return
		}
		c.Next()
	}
}
