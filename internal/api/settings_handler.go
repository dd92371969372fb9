package api

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/service"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settingsService service.SettingsService
}

func NewSettingsHandler(settingsService service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// --- Request/Response Structs ---

type ThemeRequest struct {
	Theme domain.Theme `json:"theme" binding:"required"`
}

// --- Handler Methods ---

// GetTheme godoc
// @Summary Stored UI theme
// @Description Falls back to dark when nothing valid is stored.
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H
// @Router /settings/theme [get]
func (h *SettingsHandler) GetTheme(c *gin.Context) {
	theme, err := h.settingsService.Theme(c.Request.Context(), getSession(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

// SetTheme godoc
// @Summary Persist the UI theme
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param theme body ThemeRequest true "dark or light"
// @Success 200 {object} gin.H
// @Failure 400 {object} gin.H "Unknown theme"
// @Router /settings/theme [put]
func (h *SettingsHandler) SetTheme(c *gin.Context) {
	var req ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	if err := h.settingsService.SetTheme(c.Request.Context(), getSession(c), req.Theme); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": req.Theme})
}

// ToggleTheme godoc
// @Summary Switch between dark and light
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H
// @Router /settings/theme/toggle [post]
func (h *SettingsHandler) ToggleTheme(c *gin.Context) {
	theme, err := h.settingsService.ToggleTheme(c.Request.Context(), getSession(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

// GetBlob godoc
// @Summary Read an opaque client blob
// @Description Blobs are calendar, progress and mentality. Returns null when unset.
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Param name path string true "Blob name"
// @Router /blobs/{name} [get]
func (h *SettingsHandler) GetBlob(c *gin.Context) {
	blob, err := h.settingsService.Blob(c.Request.Context(), getSession(c), c.Param("name"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	if blob == nil {
		blob = json.RawMessage("null") // Unset blobs read as JSON null
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", blob)
}

// PutBlob godoc
// @Summary Replace an opaque client blob
// @Description The body must be valid JSON. An empty body deletes the blob.
// @Tags Settings
// @Accept json
// @Security BearerAuth
// @Param name path string true "Blob name"
// @Success 204 "No Content"
// @Router /blobs/{name} [put]
func (h *SettingsHandler) PutBlob(c *gin.Context) {
	// Read the raw body: blobs are opaque JSON, not bound to a struct
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Failed to read request body")
		return
	}
	if err := h.settingsService.SetBlob(c.Request.Context(), getSession(c), c.Param("name"), body); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
