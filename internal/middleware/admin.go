package middleware

import (
	"net/http"

	"finapi/internal/storage"

	"github.com/gin-gonic/gin"
)

// AdminOnlyMiddleware checks the user's role in the user store on each request.
func AdminOnlyMiddleware(users storage.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		user, err := users.FindByID(c.Request.Context(), userID.(string))
		if err != nil || user.Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
			return
		}
		c.Next()
	}
}
