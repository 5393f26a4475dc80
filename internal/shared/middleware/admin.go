package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/agustxnpm/foodflow-sub003/internal/shared/response"
)

// RequireRole restricts a route group to the given staff roles.
// It relies on AuthMiddleware having populated the role in the context.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		roleValue, exists := c.Get(ctxRole)
		if !exists {
			response.Forbidden(c, "Insufficient permissions")
			c.Abort()
			return
		}

		role, ok := roleValue.(string)
		if !ok {
			response.Forbidden(c, "Insufficient permissions")
			c.Abort()
			return
		}

		if _, ok := allowed[role]; !ok {
			response.Forbidden(c, "Insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}
