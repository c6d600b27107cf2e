package handlers

import (
	"fmt"
	"log"
	"net/http"

	"notagest/internal/common"
	"notagest/internal/services"

	"github.com/labstack/echo/v4"
)

// UserHandlers handles profile-related HTTP requests on the backend,
// including the internal creation call from the auth service.
type UserHandlers struct {
	profileSvc services.ProfileService
}

// NewUserHandlers creates a new user handlers instance
func NewUserHandlers(profileSvc services.ProfileService) *UserHandlers {
	return &UserHandlers{profileSvc: profileSvc}
}

// InternalCreateRequest is the profile-sync payload from the auth service
type InternalCreateRequest struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"nome"`
}

// InternalCreate handles the profile-creation call from the auth service.
// The route is unauthenticated and must only be reachable on the internal
// network. The X-Request-ID header makes redelivery idempotent.
func (h *UserHandlers) InternalCreate(c echo.Context) error {
	ctx := c.Request().Context()

	var req InternalCreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if req.Email == "" || req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and name are required")
	}

	userID, err := common.ValidateUUID(req.UserID, "userId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	requestID, err := common.ValidateUUID(c.Request().Header.Get("X-Request-ID"), "X-Request-ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile, created, err := h.profileSvc.CreateFromSync(ctx, userID, req.Email, req.Name, requestID)
	if err == services.ErrProfileExists {
		return echo.NewHTTPError(http.StatusConflict, "Profile already exists for this user")
	}
	if err != nil {
		log.Printf("Failed to create profile for user %s: %v", userID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create profile")
	}

	if !created {
		// Replay of a request already delivered
		return c.JSON(http.StatusOK, profile)
	}
	return c.JSON(http.StatusCreated, profile)
}

// GetUser handles getting a profile by user ID, self only
func (h *UserHandlers) GetUser(c echo.Context) error {
	ctx := c.Request().Context()

	principal, ok := common.GetPrincipal(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	userID, err := common.ValidateUUID(c.Param("id"), "user ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if userID != principal.UserID {
		return echo.NewHTTPError(http.StatusForbidden, "Not allowed")
	}

	profile, err := h.profileSvc.Get(ctx, userID)
	if err == services.ErrNotFound {
		return common.SendNotFoundError(c, "User")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, profile)
}

// Me handles getting the authenticated user's profile
func (h *UserHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()

	principal, ok := common.GetPrincipal(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	profile, err := h.profileSvc.Get(ctx, principal.UserID)
	if err == services.ErrNotFound {
		return common.SendNotFoundError(c, "User")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, profile)
}

// Dashboard handles the dashboard greeting for the authenticated user
func (h *UserHandlers) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	principal, ok := common.GetPrincipal(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	profile, err := h.profileSvc.Get(ctx, principal.UserID)
	if err == services.ErrNotFound {
		return common.SendNotFoundError(c, "User")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Welcome to your dashboard, %s!", profile.Name),
	})
}

// UpdateUserRequest represents the profile update request payload
type UpdateUserRequest struct {
	Name  *string `json:"nome"`
	Email *string `json:"email"`
}

// UpdateUser handles updating a profile, self only
func (h *UserHandlers) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()

	principal, ok := common.GetPrincipal(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	userID, err := common.ValidateUUID(c.Param("id"), "user ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if userID != principal.UserID {
		return echo.NewHTTPError(http.StatusForbidden, "Not allowed")
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	profile, err := h.profileSvc.Update(ctx, userID, req.Name, req.Email)
	if err == services.ErrNotFound {
		return common.SendNotFoundError(c, "User")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update user")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "User updated successfully",
		"user":    profile,
	})
}

// DeleteUser handles deleting a profile and everything it owns, self only
func (h *UserHandlers) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()

	principal, ok := common.GetPrincipal(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	userID, err := common.ValidateUUID(c.Param("id"), "user ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if userID != principal.UserID {
		return echo.NewHTTPError(http.StatusForbidden, "Not allowed")
	}

	if err := h.profileSvc.Delete(ctx, userID); err != nil {
		if err == services.ErrNotFound {
			return common.SendNotFoundError(c, "User")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete user")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "User removed successfully"})
}
