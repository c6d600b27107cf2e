package main

import (
	"context"
	"fmt"
	"log"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"notagest/internal/caching"
	"notagest/internal/config"
	"notagest/internal/handlers"
	"notagest/internal/middleware"
	"notagest/internal/repositories"
	"notagest/internal/services"
	"notagest/pkg/database"
)

const version = "1.0.0"

func main() {
	cfg, err := config.LoadBackend()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	pool, err := database.NewPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.Migrate(pool, "backend"); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Object storage for receipt binaries
	store, err := services.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL, cfg.MinioBucket)
	if err != nil {
		log.Fatalf("Failed to initialize object store: %v", err)
	}
	if err := store.EnsureBucketExists(context.Background()); err != nil {
		log.Fatalf("Failed to ensure bucket %s: %v", cfg.MinioBucket, err)
	}

	// Repositories
	profileRepo := repositories.NewProfileRepo(pool)
	propertyRepo := repositories.NewPropertyRepo(pool)
	fileRepo := repositories.NewReceiptFileRepo(pool)

	// Services
	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	tokenSvc := services.NewTokenService(cfg.JWTSecret, 0) // verification only
	profileSvc := services.NewProfileService(profileRepo, store, cacheSvc)
	propertySvc := services.NewPropertyService(propertyRepo, store)
	fileSvc := services.NewReceiptFileService(fileRepo, propertyRepo, store)

	// Handlers
	userHandlers := handlers.NewUserHandlers(profileSvc)
	propertyHandlers := handlers.NewPropertyHandlers(propertySvc)
	fileHandlers := handlers.NewFileHandlers(fileSvc, store)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	e.GET("/health", healthHandlers.HealthCheck)

	// Internal sync endpoint: unauthenticated, must stay off the public
	// network
	e.POST("/api/users/internal", userHandlers.InternalCreate)

	jwtMiddleware := middleware.JWTMiddleware(tokenSvc)

	api := e.Group("/api", jwtMiddleware)

	// User routes (self only)
	api.GET("/users/me", userHandlers.Me)
	api.GET("/dashboard", userHandlers.Dashboard)
	api.GET("/users/:id", userHandlers.GetUser)
	api.PUT("/users/:id", userHandlers.UpdateUser)
	api.DELETE("/users/:id", userHandlers.DeleteUser)

	// Property routes
	api.GET("/imoveis", propertyHandlers.ListProperties)
	api.POST("/imoveis", propertyHandlers.CreateProperty)
	api.GET("/imoveis/:id", propertyHandlers.GetProperty)
	api.DELETE("/imoveis/:id", propertyHandlers.DeleteProperty)

	// Receipt file routes
	api.GET("/uploads", fileHandlers.ListFiles)
	api.POST("/uploads", fileHandlers.CreateFile)
	api.DELETE("/uploads/:id", fileHandlers.DeleteFile)
	api.POST("/uploadfile", fileHandlers.UploadFile)

	// Stored binaries, served behind auth
	e.GET("/uploads/*", fileHandlers.ServeFile, jwtMiddleware)

	log.Printf("NotaGest backend v%s starting on port %d", version, cfg.Port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Port)))
}
