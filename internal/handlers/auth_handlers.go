package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"notagest/internal/caching"
	"notagest/internal/repositories"
	"notagest/internal/services"

	"github.com/labstack/echo/v4"
)

const (
	loginRateLimit  = 10
	loginRateWindow = 15 * time.Minute
)

// AuthHandlers handles registration and login on the auth service
type AuthHandlers struct {
	credentialSvc services.CredentialService
	syncSvc       services.SyncService
	cacheSvc      caching.CacheService
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(credentialSvc services.CredentialService, syncSvc services.SyncService, cacheSvc caching.CacheService) *AuthHandlers {
	return &AuthHandlers{
		credentialSvc: credentialSvc,
		syncSvc:       syncSvc,
		cacheSvc:      cacheSvc,
	}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Password string `json:"senha"`
}

// RegisteredUser is the user fragment returned on registration
type RegisteredUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// RegisterResponse represents the registration response
type RegisterResponse struct {
	Message string         `json:"message"`
	User    RegisteredUser `json:"user"`
}

// Register handles new user registration
func (h *AuthHandlers) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name, email and password are required")
	}

	cred, entry, err := h.credentialSvc.Register(ctx, req.Name, req.Email, req.Password)
	if err == repositories.ErrEmailTaken {
		return echo.NewHTTPError(http.StatusConflict, "Email already registered")
	}
	if err != nil {
		log.Printf("Failed to register %s: %v", req.Email, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create user")
	}

	user := RegisteredUser{ID: cred.ID.String(), Email: cred.Email}

	// Inline delivery covers the common case; the outbox worker retries
	// anything that fails here, so the credential is never orphaned.
	if err := h.syncSvc.Deliver(ctx, entry); err != nil {
		log.Printf("Inline profile sync for %s failed: %v", cred.ID, err)
		return c.JSON(http.StatusServiceUnavailable, RegisterResponse{
			Message: "Account created, but the profile could not be synced yet. Try logging in later.",
			User:    user,
		})
	}

	return c.JSON(http.StatusCreated, RegisterResponse{
		Message: "User created successfully",
		User:    user,
	})
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// Login handles user login with email and password
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	rateKey := fmt.Sprintf("login:%s:%s", req.Email, c.RealIP())
	limited, err := h.cacheSvc.IsRateLimited(ctx, rateKey, loginRateLimit, loginRateWindow)
	if err != nil {
		log.Printf("Rate limit check failed for %s: %v", req.Email, err)
	} else if limited {
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many login attempts, try again later")
	}

	token, err := h.credentialSvc.Login(ctx, req.Email, req.Password)
	if err == services.ErrInvalidCredentials {
		// Only failed attempts count toward the limit
		if incrErr := h.cacheSvc.IncrementRateLimit(ctx, rateKey, loginRateWindow); incrErr != nil {
			log.Printf("Rate limit increment failed for %s: %v", req.Email, incrErr)
		}
		// Same shape for unknown email and wrong password
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid credentials")
	}
	if err != nil {
		log.Printf("Login failed for %s: %v", req.Email, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Message: "Login successful",
		Token:   token.AccessToken,
	})
}
