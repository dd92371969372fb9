package api

import (
	"alcyxob/fitness-tracker/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AchievementHandler struct {
	achievementService service.AchievementService
}

func NewAchievementHandler(achievementService service.AchievementService) *AchievementHandler {
	return &AchievementHandler{achievementService: achievementService}
}

// --- Handler Methods ---

// ListAchievements godoc
// @Summary List the badge catalog with unlock state
// @Tags Achievements
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.AchievementStatus
// @Router /achievements [get]
func (h *AchievementHandler) ListAchievements(c *gin.Context) {
	list, err := h.achievementService.List(c.Request.Context(), getSession(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Progress godoc
// @Summary Unlocked badge count, percentage and next milestone
// @Tags Achievements
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.AchievementProgress
// @Router /achievements/progress [get]
func (h *AchievementHandler) Progress(c *gin.Context) {
	progress, err := h.achievementService.Progress(c.Request.Context(), getSession(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// Evaluate godoc
// @Summary Run every unlock rule
// @Description Returns the ids unlocked by this call, in catalog order.
// @Tags Achievements
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H
// @Router /achievements/evaluate [post]
func (h *AchievementHandler) Evaluate(c *gin.Context) {
	unlocked, err := h.achievementService.Evaluate(c.Request.Context(), getSession(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unlocked": unlocked})
}

// Grant godoc
// @Summary Unlock an event-driven badge
// @Tags Achievements
// @Produce json
// @Security BearerAuth
// @Param id path string true "Achievement ID"
// @Success 200 {object} gin.H
// @Failure 400 {object} gin.H "Unknown achievement"
// @Router /achievements/{id}/grant [post]
func (h *AchievementHandler) Grant(c *gin.Context) {
	id := c.Param("id")
	unlocked, err := h.achievementService.Grant(c.Request.Context(), getSession(c), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "unlocked": unlocked})
}
