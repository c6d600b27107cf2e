package handlers

import (
	"net/http"

	"notagest/internal/common"
	"notagest/internal/models"
	"notagest/internal/services"

	"github.com/labstack/echo/v4"
)

// PropertyHandlers handles property ("imóvel") HTTP requests
type PropertyHandlers struct {
	propertySvc services.PropertyService
}

// NewPropertyHandlers creates a new property handlers instance
func NewPropertyHandlers(propertySvc services.PropertyService) *PropertyHandlers {
	return &PropertyHandlers{propertySvc: propertySvc}
}

// ListProperties handles listing the authenticated user's properties
func (h *PropertyHandlers) ListProperties(c echo.Context) error {
	ctx := c.Request().Context()

	principal, ok := common.GetPrincipal(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	properties, err := h.propertySvc.List(ctx, principal.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list properties")
	}

	return c.JSON(http.StatusOK, properties)
}

// CreatePropertyRequest represents the property creation request payload
type CreatePropertyRequest struct {
	Name         string  `json:"nome"`
	PostalCode   *string `json:"cep"`
	Street       *string `json:"rua"`
	Number       *string `json:"numero"`
	Neighborhood *string `json:"bairro"`
	City         *string `json:"cidade"`
	State        *string `json:"estado"`
	Kind         *string `json:"tipo"`
}

// CreateProperty handles registering a new property
func (h *PropertyHandlers) CreateProperty(c echo.Context) error {
	ctx := c.Request().Context()

	principal, ok := common.GetPrincipal(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req CreatePropertyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := common.ValidateRequiredString(req.Name, "nome"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	property := &models.Property{
		OwnerID:      principal.UserID,
		Name:         req.Name,
		PostalCode:   req.PostalCode,
		Street:       req.Street,
		Number:       req.Number,
		Neighborhood: req.Neighborhood,
		City:         req.City,
		State:        req.State,
		Kind:         req.Kind,
	}

	if err := h.propertySvc.Create(ctx, property); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create property")
	}

	return c.JSON(http.StatusCreated, property)
}

// GetProperty handles getting property details by ID
func (h *PropertyHandlers) GetProperty(c echo.Context) error {
	ctx := c.Request().Context()

	principal, ok := common.GetPrincipal(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	propertyID, err := common.ValidateUUID(c.Param("id"), "property ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	property, err := h.propertySvc.Get(ctx, principal.UserID, propertyID)
	switch err {
	case nil:
	case services.ErrNotFound:
		return common.SendNotFoundError(c, "Property")
	case services.ErrForbidden:
		return echo.NewHTTPError(http.StatusForbidden, "Not allowed")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, property)
}

// DeleteProperty handles deleting a property and its receipt files
func (h *PropertyHandlers) DeleteProperty(c echo.Context) error {
	ctx := c.Request().Context()

	principal, ok := common.GetPrincipal(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	propertyID, err := common.ValidateUUID(c.Param("id"), "property ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	switch err := h.propertySvc.Delete(ctx, principal.UserID, propertyID); err {
	case nil:
	case services.ErrNotFound:
		return common.SendNotFoundError(c, "Property")
	case services.ErrForbidden:
		return echo.NewHTTPError(http.StatusForbidden, "Not allowed")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete property")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"id":      propertyID.String(),
		"message": "Property removed successfully",
	})
}
