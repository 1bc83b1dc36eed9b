package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/the-abed/event-flow-server/internal/domain"
	"github.com/the-abed/event-flow-server/internal/metrics"
	"github.com/the-abed/event-flow-server/internal/requestid"
)

const (
	errNoToken      = "Unauthorized: No token provided"
	errInvalidToken = "Invalid or expired token"

	bearerPrefix = "Bearer "
	identityKey  = "identity"
)

type TokenVerifier interface {
	Verify(raw string) (domain.Identity, error)
}

// Auth admits requests carrying a valid Bearer token and attaches the
// caller's identity. Everything else is stopped here with a 401.
func Auth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			metrics.TokenRejectionsTotal.WithLabelValues("missing").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": errNoToken})
			return
		}

		identity, err := tokens.Verify(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			metrics.TokenRejectionsTotal.WithLabelValues("invalid").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": errInvalidToken})
			return
		}

		c.Set(identityKey, identity)
		c.Set("userID", identity.UserID)
		c.Request = c.Request.WithContext(requestid.WithUser(c.Request.Context(), identity.UserID))
		c.Next()
	}
}

// Identity returns the caller attached by Auth. ok is false on routes that
// are not behind the gate.
func Identity(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	identity, ok := v.(domain.Identity)
	return identity, ok
}
