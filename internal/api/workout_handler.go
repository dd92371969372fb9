package api

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- Request/Response Structs ---

type SaveWorkoutRequest struct {
	Name      string                 `json:"name" binding:"required"`
	Exercises []domain.ExerciseEntry `json:"exercises"`
	Notes     string                 `json:"notes"`
}

// --- Handler Methods ---

// SaveWorkout godoc
// @Summary Save a workout routine
// @Description Stores a new, incomplete workout for the authenticated user.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body SaveWorkoutRequest true "Workout details"
// @Success 201 {object} domain.Workout
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /workouts [post]
func (h *WorkoutHandler) SaveWorkout(c *gin.Context) {
	var req SaveWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	workout, err := h.workoutService.Save(c.Request.Context(), getSession(c), req.Name, req.Exercises, req.Notes)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, workout)
}

// ListWorkouts godoc
// @Summary List workouts
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Workout
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	workouts, err := h.workoutService.List(c.Request.Context(), getSession(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, workouts)
}

// DeleteWorkout godoc
// @Summary Delete a workout
// @Tags Workouts
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Success 204 "No Content"
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{id} [delete]
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	if err := h.workoutService.Delete(c.Request.Context(), getSession(c), c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CompleteWorkout godoc
// @Summary Mark a workout as completed
// @Description Completing a workout unlocks workout_completed and advances the training streak.
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Success 200 {object} domain.Workout
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{id}/complete [post]
func (h *WorkoutHandler) CompleteWorkout(c *gin.Context) {
	workout, err := h.workoutService.Complete(c.Request.Context(), getSession(c), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}
