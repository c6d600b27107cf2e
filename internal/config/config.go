package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// AuthConfig holds the auth service configuration.
type AuthConfig struct {
	Port        int
	DatabaseURL string
	JWTSecret   string
	TokenTTL    time.Duration
	BackendURL  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SyncTimeout   time.Duration
	DrainInterval time.Duration
}

// BackendConfig holds the backend service configuration.
type BackendConfig struct {
	Port        int
	DatabaseURL string
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string
}

// LoadAuth reads the auth service configuration from the environment.
// JWT_SECRET and DATABASE_URL are required; the same secret must be
// configured on the backend or token verification will fail there.
func LoadAuth() (*AuthConfig, error) {
	cfg := &AuthConfig{
		Port:          envInt("AUTH_PORT", 5001),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		TokenTTL:      time.Duration(envInt("TOKEN_TTL_SECONDS", 3600)) * time.Second,
		BackendURL:    envString("BACKEND_URL", "http://localhost:5000"),
		RedisAddr:     envString("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),
		SyncTimeout:   time.Duration(envInt("SYNC_TIMEOUT_SECONDS", 5)) * time.Second,
		DrainInterval: time.Duration(envInt("OUTBOX_DRAIN_SECONDS", 30)) * time.Second,
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	return cfg, nil
}

// LoadBackend reads the backend service configuration from the environment.
func LoadBackend() (*BackendConfig, error) {
	cfg := &BackendConfig{
		Port:           envInt("PORT", 5000),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		RedisAddr:      envString("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        envInt("REDIS_DB", 0),
		MinioEndpoint:  envString("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: envString("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: envString("MINIO_SECRET_KEY", "minioadmin"),
		MinioUseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
		MinioBucket:    envString("MINIO_BUCKET", "notagest-uploads"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	return cfg, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
