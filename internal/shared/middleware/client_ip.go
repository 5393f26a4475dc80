package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/agustxnpm/foodflow-sub003/internal/shared/utils"
)

type contextKey string

const clientIPKey contextKey = "client_ip"

// ClientIPMiddleware resolves the real client address and injects it into
// both the gin context and the request context, so staff actions such as
// manual discounts can be audited with their origin.
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := utils.ExtractClientIP(c)

		c.Set("client_ip", clientIP)

		ctx := context.WithValue(c.Request.Context(), clientIPKey, clientIP)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetClientIPFromContext retrieves the client IP injected by
// ClientIPMiddleware, or "" when absent.
func GetClientIPFromContext(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey).(string); ok {
		return ip
	}
	return ""
}
