package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"car_rental/internal/utils" // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// tokenFromRequest extracts the bearer token from the Authorization header,
// falling back to the "token" cookie used by the browser client
func tokenFromRequest(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization") // Get Authorization header
	// Check if the Authorization header is present and properly formatted
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string
	}
	// Fall back to the token cookie
	if cookie, err := c.Cookie("token"); err == nil {
		return cookie // Token from cookie
	}
	return "" // No token supplied
}

// JWTAuthMiddleware validates JWT tokens and extracts the authenticated user
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := tokenFromRequest(c) // Extract the token string
		// Check if a token was supplied at all
		if tokenStr == "" {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
			return
		}
		claims, err := utils.ParseJWT(tokenStr, secret) // Parse the JWT token
		if err != nil {
			// If parsing fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
			return
		}
		c.Set("userID", claims.UserID)     // Store userID in context
		c.Set("username", claims.Username) // Store username in context
		c.Next()                           // Proceed to the next handler
	}
}
