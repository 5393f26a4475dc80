package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agustxnpm/foodflow-sub003/internal/shared/response"
	"github.com/agustxnpm/foodflow-sub003/pkg/jwt"
)

const (
	ctxUserID   = "userID"
	ctxTenantID = "tenantID"
	ctxRole     = "role"
)

// AuthMiddleware validates the Bearer token and injects the caller's
// identity into the request context. Every protected route reads the
// tenant id from here, never from the payload.
func AuthMiddleware(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := manager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "invalid user id in token")
			c.Abort()
			return
		}
		tenantID, err := uuid.Parse(claims.TenantID)
		if err != nil {
			response.Unauthorized(c, "invalid tenant id in token")
			c.Abort()
			return
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxTenantID, tenantID)
		c.Set(ctxRole, claims.Role)

		c.Next()
	}
}

// TenantID returns the tenant injected by AuthMiddleware.
func TenantID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ctxTenantID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// UserID returns the authenticated user injected by AuthMiddleware.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
