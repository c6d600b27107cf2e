package main

import (
	"fmt"
	"log"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"notagest/internal/caching"
	"notagest/internal/config"
	"notagest/internal/handlers"
	"notagest/internal/jobs/background"
	"notagest/internal/repositories"
	"notagest/internal/services"
	"notagest/pkg/database"
)

const version = "1.0.0"

func main() {
	cfg, err := config.LoadAuth()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	pool, err := database.NewPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.Migrate(pool, "auth"); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Repositories
	credRepo := repositories.NewCredentialRepo(pool)
	outboxRepo := repositories.NewOutboxRepo(pool)

	// Services
	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	tokenSvc := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	credentialSvc := services.NewCredentialService(credRepo, tokenSvc)
	syncSvc := services.NewSyncService(outboxRepo, cfg.BackendURL, cfg.SyncTimeout)

	// Outbox drain worker retries profile syncs the inline call missed
	worker, err := background.NewOutboxWorker(syncSvc, outboxRepo, cfg.DrainInterval)
	if err != nil {
		log.Fatalf("Failed to create outbox worker: %v", err)
	}
	worker.Start()
	defer worker.Stop()

	// Handlers
	authHandlers := handlers.NewAuthHandlers(credentialSvc, syncSvc, cacheSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	e.POST("/register", authHandlers.Register)
	e.POST("/login", authHandlers.Login)
	e.GET("/health", healthHandlers.HealthCheck)

	log.Printf("NotaGest auth service v%s starting on port %d", version, cfg.Port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Port)))
}
