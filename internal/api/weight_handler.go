package api

import (
	"alcyxob/fitness-tracker/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type WeightHandler struct {
	weightService service.WeightService
}

func NewWeightHandler(weightService service.WeightService) *WeightHandler {
	return &WeightHandler{weightService: weightService}
}

// --- Request/Response Structs ---

type AddWeightRequest struct {
	Weight float64 `json:"weight" binding:"required"`
	Notes  string  `json:"notes"`
}

// --- Handler Methods ---

// AddWeight godoc
// @Summary Log a body weight measurement
// @Tags Weights
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param entry body AddWeightRequest true "Weight in kilograms"
// @Success 201 {object} domain.WeightEntry
// @Failure 400 {object} gin.H "Weight out of range"
// @Router /weights [post]
func (h *WeightHandler) AddWeight(c *gin.Context) {
	var req AddWeightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	entry, err := h.weightService.Add(c.Request.Context(), getSession(c), req.Weight, req.Notes)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ListWeights godoc
// @Summary List weight entries
// @Tags Weights
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.WeightEntry
// @Router /weights [get]
func (h *WeightHandler) ListWeights(c *gin.Context) {
	entries, err := h.weightService.List(c.Request.Context(), getSession(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// DeleteWeight godoc
// @Summary Delete a weight entry
// @Tags Weights
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Success 204 "No Content"
// @Router /weights/{id} [delete]
func (h *WeightHandler) DeleteWeight(c *gin.Context) {
	if err := h.weightService.Delete(c.Request.Context(), getSession(c), c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// WeightStats godoc
// @Summary Summary statistics over the weight history
// @Description Returns null when no weight has been logged yet.
// @Tags Weights
// @Produce json
// @Security BearerAuth
// @Success 200 {object} stats.WeightStats
// @Router /weights/stats [get]
func (h *WeightHandler) WeightStats(c *gin.Context) {
	ws, err := h.weightService.Stats(c.Request.Context(), getSession(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ws)
}
