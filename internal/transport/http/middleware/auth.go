package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vocablearn/internal/application/usecase"
)

// AuthMiddleware validates the bearer access token and stores the resolved
// user id on the request context under "userId".
func AuthMiddleware(auth *usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		user, err := auth.ValidateAccess(c, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set("userId", user.ID.String())
		c.Next()
	}
}
