package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"blog-admin/internal/jwt"
)

// SessionCookieName is the HTTP-only cookie carrying the session token
const SessionCookieName = "session_token"

// TokenFromRequest reads the session cookie, falling back to an
// Authorization: Bearer header for API clients
func TokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(SessionCookieName); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if scheme, token, found := strings.Cut(header, " "); found && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}

// AuthMiddleware rejects requests without a valid session and stores
// the user id and email in the context under "user_id" and "email"
func AuthMiddleware(jwtService *jwt.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			unauthorized(c)
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			unauthorized(c)
			return
		}

		c.Set("user_id", claims.Subject)
		c.Set("email", claims.Email)
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"message": "Unauthorized",
	})
}
