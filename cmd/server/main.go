package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"peerpay/internal/adapters/cache"
	"peerpay/internal/adapters/http/middleware"
	"peerpay/internal/adapters/http/routes"
	"peerpay/internal/adapters/messaging"
	"peerpay/internal/adapters/persistence/models"
	"peerpay/internal/adapters/persistence/repositories"
	"peerpay/internal/config"
	"peerpay/internal/core/services"
	"peerpay/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"

	_ "peerpay/docs" // Swagger docs
)

// @title peerpay API
// @version 1.0
// @description Peer-to-peer payments and friends feed API

// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	appLogger := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Prefix: "peerpay",
	})

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase(db)

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	nameCache := newUsernameCache(cfg, appLogger)
	defer nameCache.Close()

	publisher := newPublisher(cfg)
	defer publisher.Close()

	svc := routes.NewServices(db, cfg, nameCache, publisher, appLogger)

	// Start the reconciler on its cron schedule
	reconciler := services.NewReconcileService(
		repositories.NewTxManager(db),
		repositories.NewUserRepository(db),
		repositories.NewTransactionRepository(db),
		appLogger,
	)
	if err := reconciler.Start(cfg.Reconcile.Schedule); err != nil {
		log.Fatalf("❌ Failed to start reconciler: %v", err)
	}
	defer reconciler.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "peerpay API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, db, svc, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

type usernameCache interface {
	services.UsernameCache
	Close() error
}

// newUsernameCache falls back to a no-op cache when Redis is not configured or unreachable
func newUsernameCache(cfg *config.Config, logger *slog.Logger) usernameCache {
	if cfg.Redis.URL == "" {
		return cache.NoopUsernameCache{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := cache.NewRedisUsernameCache(ctx, cfg.Redis.URL, cfg.Redis.TTL, logger)
	if err != nil {
		log.Printf("⚠️ Username cache disabled: %v", err)
		return cache.NoopUsernameCache{}
	}
	log.Println("✅ Username cache connected")
	return c
}

type eventPublisher interface {
	services.EventPublisher
	Close() error
}

// newPublisher falls back to dropping events when RabbitMQ is not configured or unreachable
func newPublisher(cfg *config.Config) eventPublisher {
	if cfg.RabbitMQ.URL == "" {
		return messaging.NoopPublisher{}
	}

	p, err := messaging.NewRabbitMQPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
	if err != nil {
		log.Printf("⚠️ Event publishing disabled: %v", err)
		return messaging.NoopPublisher{}
	}
	return p
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
