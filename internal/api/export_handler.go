package api

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ExportHandler struct {
	exportService service.ExportService
}

func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// attachment makes browsers download the response as name.
func attachment(c *gin.Context, name string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
}

// --- Handler Methods ---

// ExportJSON godoc
// @Summary Download every collection as one JSON document
// @Tags Export
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.ExportDocument
// @Router /export/json [get]
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	data, err := h.exportService.ExportJSON(c.Request.Context(), getSession(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	attachment(c, "fitness-export.json")
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// ExportCSV godoc
// @Summary Download workouts and weights as CSV
// @Tags Export
// @Produce text/csv
// @Security BearerAuth
// @Router /export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	data, err := h.exportService.ExportCSV(c.Request.Context(), getSession(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	attachment(c, "fitness-export.csv")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// Import godoc
// @Summary Replace all data with a previously exported document
// @Tags Export
// @Accept json
// @Security BearerAuth
// @Param document body domain.ExportDocument true "Export document"
// @Success 204 "No Content"
// @Failure 400 {object} gin.H "Malformed document"
// @Router /import [post]
func (h *ExportHandler) Import(c *gin.Context) {
	// Malformed JSON is rejected here, record validation happens in the service
	var doc domain.ExportDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	if err := h.exportService.Import(c.Request.Context(), getSession(c), &doc); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Sync godoc
// @Summary Snapshot notes, reminders, achievements and blobs into the backup slot
// @Description The same snapshot the background job takes for active users.
// @Tags Export
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.SyncBackup
// @Router /sync [post]
func (h *ExportHandler) Sync(c *gin.Context) {
	backup, err := h.exportService.SyncBackup(c.Request.Context(), getSession(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, backup)
}

// Restore godoc
// @Summary Restore notes, reminders, achievements and blobs from the sync backup
// @Tags Export
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.SyncBackup
// @Failure 404 {object} gin.H "No backup stored"
// @Router /sync/restore [post]
func (h *ExportHandler) Restore(c *gin.Context) {
	backup, err := h.exportService.Restore(c.Request.Context(), getSession(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, backup)
}

// Archive godoc
// @Summary Upload a JSON export to object storage
// @Description Returns a presigned download URL for the uploaded archive.
// @Tags Export
// @Produce json
// @Security BearerAuth
// @Success 201 {object} service.ArchiveResult
// @Failure 503 {object} gin.H "Archive storage not configured"
// @Router /export/archive [post]
func (h *ExportHandler) Archive(c *gin.Context) {
	result, err := h.exportService.Archive(c.Request.Context(), getSession(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
