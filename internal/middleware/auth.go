package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"todoapp/internal/apperrors"
	"todoapp/internal/models"
	"todoapp/internal/services"
)

const ContextUserKey = "current_user"

// AuthMiddleware validates the bearer token and resolves the user record.
// A token that verifies but whose user has since been deleted is rejected
// the same way as an invalid token.
func AuthMiddleware(auth services.AuthService, users services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimSpace(parts[1])
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}

		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), claims.UserID)
		if err != nil || user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user resolved by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.User, error) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, apperrors.Unauthorized("no authenticated user")
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		return nil, apperrors.Unauthorized("no authenticated user")
	}
	return user, nil
}
