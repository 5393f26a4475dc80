package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	authmodel "github.com/agustxnpm/foodflow-sub003/internal/domains/auth/model"
	"github.com/agustxnpm/foodflow-sub003/internal/shared/middleware"
	"github.com/agustxnpm/foodflow-sub003/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
		middleware.ClientIPMiddleware(),
	)

	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupPromotionRoutes(v1, c)
		setupOrderRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", c.AuthHandler.Login)
		auth.POST("/refresh", c.AuthHandler.Refresh)
	}
}

// ========================================
// PROMOTION ROUTES
// ========================================
func setupPromotionRoutes(v1 *gin.RouterGroup, c *container.Container) {
	promotions := v1.Group("/promotions")
	promotions.Use(
		middleware.AuthMiddleware(c.JWTManager),
		middleware.RequireRole(authmodel.RoleOwner, authmodel.RoleManager),
	)
	{
		promotions.POST("", c.PromotionHandler.CreatePromotion)
		promotions.GET("", c.PromotionHandler.ListPromotions)
		promotions.GET("/:id", c.PromotionHandler.GetPromotion)
		promotions.PUT("/:id", c.PromotionHandler.UpdatePromotion)
		promotions.PATCH("/:id/status", c.PromotionHandler.UpdateStatus)
		promotions.DELETE("/:id", c.PromotionHandler.DeletePromotion)
	}
}

// ========================================
// ORDER ROUTES
// ========================================
func setupOrderRoutes(v1 *gin.RouterGroup, c *container.Container) {
	orders := v1.Group("/orders")
	orders.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		orders.POST("", c.OrderHandler.CreateOrder)
		orders.GET("", c.OrderHandler.ListOrders)
		orders.GET("/:id", c.OrderHandler.GetOrder)
		orders.DELETE("/:id", c.OrderHandler.DeleteOrder)

		orders.POST("/:id/items", c.OrderHandler.AddItem)
		orders.PATCH("/:id/items/:lineId", c.OrderHandler.UpdateItemQuantity)
		orders.DELETE("/:id/items/:lineId", c.OrderHandler.RemoveItem)

		orders.POST("/:id/recalculate", c.OrderHandler.Recalculate)

		orders.POST("/:id/items/:lineId/discount", c.OrderHandler.ApplyLineDiscount)
		orders.POST("/:id/discount", c.OrderHandler.ApplyGlobalDiscount)
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"services":  gin.H{},
		}

		// Check database
		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		// Check redis. Degraded cache is not fatal: promotion reads fall
		// through to Postgres.
		redisStatus := "ok"
		if appCtx.Redis == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Redis.HealthCheck(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
