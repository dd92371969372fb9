package api

import (
	"alcyxob/fitness-tracker/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ReminderHandler struct {
	reminderService service.ReminderService
}

func NewReminderHandler(reminderService service.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService}
}

// --- Request/Response Structs ---

type SetReminderRequest struct {
	Title string `json:"title" binding:"required"`
	Time  string `json:"time" binding:"required"` // HH:MM
	Type  string `json:"type"`
}

// --- Handler Methods ---

// SetReminder godoc
// @Summary Create a daily reminder
// @Tags Reminders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reminder body SetReminderRequest true "Reminder"
// @Success 201 {object} domain.Reminder
// @Failure 400 {object} gin.H "Invalid title or time"
// @Router /reminders [post]
func (h *ReminderHandler) SetReminder(c *gin.Context) {
	var req SetReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	reminder, err := h.reminderService.Set(c.Request.Context(), getSession(c), req.Title, req.Time, req.Type)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reminder)
}

// ListReminders godoc
// @Summary List reminders in creation order
// @Tags Reminders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Reminder
// @Router /reminders [get]
func (h *ReminderHandler) ListReminders(c *gin.Context) {
	reminders, err := h.reminderService.List(c.Request.Context(), getSession(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, reminders)
}

// DeleteReminder godoc
// @Summary Delete a reminder
// @Tags Reminders
// @Security BearerAuth
// @Param id path string true "Reminder ID"
// @Success 204 "No Content"
// @Failure 404 {object} gin.H "Reminder not found"
// @Router /reminders/{id} [delete]
func (h *ReminderHandler) DeleteReminder(c *gin.Context) {
	if err := h.reminderService.Delete(c.Request.Context(), getSession(c), c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
