package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/agustxnpm/foodflow-sub003/internal/config"
	"github.com/agustxnpm/foodflow-sub003/internal/infrastructure/cache"
	"github.com/agustxnpm/foodflow-sub003/internal/infrastructure/database"
	"github.com/agustxnpm/foodflow-sub003/pkg/jwt"

	authHandler "github.com/agustxnpm/foodflow-sub003/internal/domains/auth/handler"
	authRepo "github.com/agustxnpm/foodflow-sub003/internal/domains/auth/repository"
	authService "github.com/agustxnpm/foodflow-sub003/internal/domains/auth/service"
	orderHandler "github.com/agustxnpm/foodflow-sub003/internal/domains/order/handler"
	orderRepo "github.com/agustxnpm/foodflow-sub003/internal/domains/order/repository"
	orderService "github.com/agustxnpm/foodflow-sub003/internal/domains/order/service"
	productRepo "github.com/agustxnpm/foodflow-sub003/internal/domains/product/repository"
	"github.com/agustxnpm/foodflow-sub003/internal/domains/promotion/engine"
	promotionHandler "github.com/agustxnpm/foodflow-sub003/internal/domains/promotion/handler"
	promotionRepo "github.com/agustxnpm/foodflow-sub003/internal/domains/promotion/repository"
	promotionService "github.com/agustxnpm/foodflow-sub003/internal/domains/promotion/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph. Everything in it is a
// singleton built once at startup.
type Container struct {
	// Infrastructure
	Config     *config.Config
	DB         *database.PostgresDB
	Redis      *cache.RedisClient
	JWTManager *jwt.Manager

	// Rule engine (stateless, shared)
	Engine *engine.Engine

	// Repositories
	PromotionRepo promotionRepo.PromotionRepository
	OrderRepo     orderRepo.OrderRepository
	ProductRepo   productRepo.ProductRepository
	UserRepo      authRepo.UserRepository

	// Services
	PromotionService promotionService.ServiceInterface
	OrderService     orderService.ServiceInterface
	AuthService      authService.ServiceInterface

	// Handlers
	PromotionHandler *promotionHandler.AdminHandler
	OrderHandler     *orderHandler.Handler
	AuthHandler      *authHandler.Handler

	// stopMonitor cancels the pool health monitor goroutine.
	stopMonitor context.CancelFunc
}

// NewContainer builds the whole dependency graph in order: config,
// infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	c := &Container{}

	// Step 1: configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("config loaded (environment: %s)", cfg.App.Environment)

	// Step 2: database
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	c.stopMonitor = stopMonitor
	go db.MonitorPoolHealth(monitorCtx, time.Minute)

	// Step 3: redis. A cache failure is not fatal: the promotion
	// repository falls through to Postgres.
	redisClient := cache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisClient.Connect(context.Background()); err != nil {
		log.Printf("redis connection failed (non-critical): %v", err)
	}
	c.Redis = redisClient

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	// Step 4: rule engine
	c.Engine = engine.New(engine.Policy{
		AttributeZeroDiscount: cfg.Engine.AttributeZeroDiscount,
	})

	// Steps 5-7: layered wiring
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	// The promotion repository is wrapped in the Redis read-through cache;
	// everything reading candidate lists goes through it.
	c.PromotionRepo = promotionRepo.NewCachedRepository(
		promotionRepo.NewPostgresRepository(pool),
		c.Redis,
		time.Duration(c.Config.Engine.CandidateCacheTTL)*time.Second,
	)
	c.OrderRepo = orderRepo.NewPostgresRepository(pool)
	c.ProductRepo = productRepo.NewPostgresRepository(pool)
	c.UserRepo = authRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.PromotionService = promotionService.NewPromotionService(c.PromotionRepo)
	c.OrderService = orderService.NewOrderService(
		c.OrderRepo,
		c.ProductRepo,
		c.PromotionService,
		c.Engine,
		engine.SystemClock(),
	)
	c.AuthService = authService.NewAuthService(c.UserRepo, c.JWTManager)
}

func (c *Container) initHandlers() {
	c.PromotionHandler = promotionHandler.NewAdminHandler(c.PromotionService)
	c.OrderHandler = orderHandler.NewHandler(c.OrderService)
	c.AuthHandler = authHandler.NewHandler(c.AuthService)
}

// Cleanup releases infrastructure resources during graceful shutdown.
func (c *Container) Cleanup() {
	if c.stopMonitor != nil {
		c.stopMonitor()
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Printf("failed to close redis: %v", err)
		}
	}
}
