package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todoapp/internal/authz"
)

// RequireAdmin rejects non-admin callers with 403. Must run after
// AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := CurrentUser(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no authenticated user"})
			return
		}
		if !authz.IsAdmin(user) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
