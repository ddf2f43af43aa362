package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/datingapp/internal/server/auth"
)

const userIDKey = "userID"

// authRequired validates the bearer token and stashes the caller's user id
// in the request context. Activity tracking piggybacks on it: every
// authenticated request bumps last_active_at, best-effort.
func (s *HTTPServer) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		claims, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(userIDKey, claims.UserID)

		if err := s.members.TouchLastActive(c.Request.Context(), claims.UserID); err != nil {
			s.logger.Warn(c.Request.Context(), "failed to record activity", "error", err)
		}

		c.Next()
	}
}

// currentUserID returns the authenticated caller's id set by authRequired.
func currentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
