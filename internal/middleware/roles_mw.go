package middleware

import (
	"net/http"
	"slices"

	"todo_api/internal/model"

	"github.com/gin-gonic/gin"
)

// Authorize reports whether a principal holding roles satisfies the required role.
func Authorize(required string, roles []string) bool {
	return slices.Contains(roles, required)
}

// RoleMiddleware creates a middleware that requires the given role
func RoleMiddleware(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rolesVal, exists := c.Get(AuthRolesKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		roles, ok := rolesVal.([]string)
		if !ok || !Authorize(required, roles) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
			return
		}

		c.Next()
	}
}

// UserMiddleware checks if the user has the User role. Seeded admins carry it too.
func UserMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleUser)
}
