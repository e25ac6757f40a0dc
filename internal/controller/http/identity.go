package http

import (
	"feedstream/internal/policy"
	"feedstream/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// identityFrom reads the authentication result resolved once per request by
// the identity middleware.
func identityFrom(c *gin.Context) policy.Identity {
	return policy.Identity{
		Authenticated: c.GetBool(middleware.KeyIsAuth),
		UserID:        c.GetString(middleware.KeyUserID),
		Email:         c.GetString(middleware.KeyEmail),
	}
}
