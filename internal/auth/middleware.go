package auth

import (
	"net/http"
	"strings"

	"mzansicare/internal/response"

	"github.com/gin-gonic/gin"
)

// Middleware validates the access token and injects userID and role into the
// request context. Requests without a verified identity are rejected with
// UNAUTHENTICATED before any queue logic runs.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, response.ErrorResponse{
				Code:    "UNAUTHENTICATED",
				Message: "Please sign in",
			})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, ok := ParseToken(tokenString, AccessSecret)
		if !ok {
			c.JSON(http.StatusUnauthorized, response.ErrorResponse{
				Code:    "INVALID_TOKEN",
				Message: "Invalid or expired token",
			})
			c.Abort()
			return
		}

		userID, ok := claims["user_id"].(float64)
		if !ok {
			c.JSON(http.StatusUnauthorized, response.ErrorResponse{
				Code:    "INVALID_TOKEN_CLAIMS",
				Message: "Cannot read token claims",
			})
			c.Abort()
			return
		}

		c.Set("userID", uint(userID))
		if role, ok := claims["role"].(string); ok {
			c.Set("role", role)
		}
		c.Next()
	}
}

// RequireAdmin gates operator endpoints (call next, mark served, supplies).
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != "admin" {
			c.JSON(http.StatusForbidden, response.ErrorResponse{
				Code:    "ADMIN_ONLY",
				Message: "Operator access required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
