package handlers

import (
	"fmt"
	"log"
	"net/http"
	"path"
	"strings"
	"time"

	"notagest/internal/common"
	"notagest/internal/models"
	"notagest/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// FileHandlers handles receipt file metadata, upload and download
type FileHandlers struct {
	fileSvc services.ReceiptFileService
	store   services.ObjectStore
}

// NewFileHandlers creates a new file handlers instance
func NewFileHandlers(fileSvc services.ReceiptFileService, store services.ObjectStore) *FileHandlers {
	return &FileHandlers{
		fileSvc: fileSvc,
		store:   store,
	}
}

// ListFiles handles listing the user's receipt files, optionally filtered
// by property
func (h *FileHandlers) ListFiles(c echo.Context) error {
	ctx := c.Request().Context()

	principal, ok := common.GetPrincipal(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var propertyID *uuid.UUID
	if raw := c.QueryParam("propertyId"); raw != "" {
		id, err := common.ValidateUUID(raw, "propertyId")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		propertyID = &id
	}

	files, err := h.fileSvc.List(ctx, principal.UserID, propertyID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list files")
	}

	return c.JSON(http.StatusOK, files)
}

// CreateFileRequest represents the file metadata creation payload
type CreateFileRequest struct {
	Title        string  `json:"title"`
	Value        float64 `json:"value"`
	PurchaseDate string  `json:"purchaseDate"`
	PropertyID   string  `json:"propertyId"`
	Category     string  `json:"category"`
	Subcategory  string  `json:"subcategory"`
	Observation  *string `json:"observation"`
	FilePath     *string `json:"filePath"`
}

// CreateFile handles registering receipt file metadata
func (h *FileHandlers) CreateFile(c echo.Context) error {
	ctx := c.Request().Context()

	principal, ok := common.GetPrincipal(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req CreateFileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	for field, value := range map[string]string{
		"title":       req.Title,
		"category":    req.Category,
		"subcategory": req.Subcategory,
	} {
		if err := common.ValidateRequiredString(value, field); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	if err := common.ValidatePositiveFloat(req.Value, "value", 1e9); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	purchaseDate, err := common.ValidateDateFormat(req.PurchaseDate, "purchaseDate")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	propertyID, err := common.ValidateUUID(req.PropertyID, "propertyId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// A stored file path must stay inside the caller's prefix
	if req.FilePath != nil && !strings.HasPrefix(*req.FilePath, principal.UserID.String()+"/") {
		return echo.NewHTTPError(http.StatusForbidden, "Not allowed")
	}

	file := &models.ReceiptFile{
		OwnerID:      principal.UserID,
		PropertyID:   propertyID,
		Title:        req.Title,
		Value:        req.Value,
		PurchaseDate: purchaseDate,
		Category:     req.Category,
		Subcategory:  req.Subcategory,
		Observation:  req.Observation,
		FilePath:     req.FilePath,
	}

	switch err := h.fileSvc.Create(ctx, file); err {
	case nil:
	case services.ErrNotFound:
		return common.SendNotFoundError(c, "Property")
	case services.ErrForbidden:
		return echo.NewHTTPError(http.StatusForbidden, "Not allowed")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create file")
	}

	return c.JSON(http.StatusCreated, file)
}

// DeleteFile handles deleting receipt file metadata and its stored blob
func (h *FileHandlers) DeleteFile(c echo.Context) error {
	ctx := c.Request().Context()

	principal, ok := common.GetPrincipal(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	fileID, err := common.ValidateUUID(c.Param("id"), "file ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	switch err := h.fileSvc.Delete(ctx, principal.UserID, fileID); err {
	case nil:
	case services.ErrNotFound:
		return common.SendNotFoundError(c, "File")
	case services.ErrForbidden:
		return echo.NewHTTPError(http.StatusForbidden, "Not allowed")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete file")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"id":      fileID.String(),
		"message": "File removed successfully",
	})
}

// UploadFile handles the multipart binary upload, storing the blob under
// the caller's prefix and returning the storage key
func (h *FileHandlers) UploadFile(c echo.Context) error {
	ctx := c.Request().Context()

	principal, ok := common.GetPrincipal(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No valid file was sent")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read uploaded file")
	}
	defer src.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("%s/%d-%s", principal.UserID, time.Now().UnixNano(), sanitizeFilename(fileHeader.Filename))

	if err := h.store.Upload(ctx, key, src, fileHeader.Size, contentType); err != nil {
		log.Printf("Failed to store upload %s: %v", key, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store file")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message":  "File uploaded successfully",
		"filePath": key,
	})
}

// ServeFile streams a stored receipt file back to its owner
func (h *FileHandlers) ServeFile(c echo.Context) error {
	ctx := c.Request().Context()

	principal, ok := common.GetPrincipal(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	key := c.Param("*")
	if key == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "File path is required")
	}

	// Keys are namespaced per user; nobody reads outside their prefix
	if !strings.HasPrefix(key, principal.UserID.String()+"/") {
		return echo.NewHTTPError(http.StatusForbidden, "Not allowed")
	}

	obj, info, err := h.store.Download(ctx, key)
	if err != nil {
		return common.SendNotFoundError(c, "File")
	}
	defer obj.Close()

	c.Response().Header().Set("Cache-Control", "private, no-cache, no-store, must-revalidate")
	if !isPreviewable(key) {
		c.Response().Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", path.Base(key)))
	}

	return c.Stream(http.StatusOK, info.ContentType, obj)
}

func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

func isPreviewable(key string) bool {
	switch strings.ToLower(path.Ext(key)) {
	case ".pdf", ".png", ".jpg", ".jpeg", ".gif", ".txt":
		return true
	}
	return false
}
