package middleware

import (
	"net/http"
	"strings"

	"mago-agent/internal/auth"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware checks the "Authorization: Bearer <token>" header and puts
// the session's identity email in the context for the handlers.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with Bearer"})
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("email", claims.Email)
		c.Next()
	}
}

// RequireAdmin guards the admin-only routes: the session email must match
// the configured administrator account.
func RequireAdmin(adminEmail string) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, exists := c.Get("email")
		if adminEmail == "" || !exists || email != adminEmail {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
			c.Abort()
			return
		}
		c.Next()
	}
}
