package middleware

import (
	"strings"

	"feedstream/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// Context keys set by IdentityMiddleware.
const (
	KeyIsAuth = "is_auth"
	KeyUserID = "user_id"
	KeyEmail  = "email"
)

// IdentityMiddleware resolves the bearer token once per request and attaches
// the result to the context. It never aborts: a missing, malformed, or
// expired token just leaves the request unauthenticated, and each operation
// decides for itself whether that matters.
func IdentityMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(KeyIsAuth, false)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.Next()
			return
		}

		claims, err := jwtService.ValidateToken(parts[1])
		if err != nil {
			// Bad signature and expired tokens are indistinguishable
			// from no token at all.
			c.Next()
			return
		}

		c.Set(KeyIsAuth, true)
		c.Set(KeyUserID, claims.UserID)
		c.Set(KeyEmail, claims.Email)
		c.Next()
	}
}
