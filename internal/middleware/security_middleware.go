package middleware

import (
	"net/http"

	"go-clinic-panel/internal/auth"
	"go-clinic-panel/internal/store"

	"github.com/gin-gonic/gin"
)

// RequireSession lets a request through only while the gateway holds an access token.
// Expiry is not checked here: the backend client refreshes on the first 401.
func RequireSession(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := tokens.Access(c.Request.Context())
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
			return
		}

		if claims, err := auth.PeekClaims(token); err == nil {
			c.Set("userID", claims.UserID)
		}
		c.Next()
	}
}

// RequireAdmin is a secondary guard for routes only administrators may use.
func RequireAdmin(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := s.Auth()
		if u == nil || !u.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
			return
		}
		c.Next()
	}
}
