package api

import (
	"alcyxob/fitness-tracker/internal/service"
	"alcyxob/fitness-tracker/internal/stats"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// StatsHandler serves the read-only aggregations.
type StatsHandler struct {
	dashboardService service.DashboardService
	workoutService   service.WorkoutService
	streakService    service.StreakService
}

func NewStatsHandler(
	dashboardService service.DashboardService,
	workoutService service.WorkoutService,
	streakService service.StreakService,
) *StatsHandler {
	return &StatsHandler{
		dashboardService: dashboardService,
		workoutService:   workoutService,
		streakService:    streakService,
	}
}

// --- Handler Methods ---

// Statistics godoc
// @Summary Workout, weight and achievement statistics
// @Tags Stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Statistics
// @Router /stats [get]
func (h *StatsHandler) Statistics(c *gin.Context) {
	st, err := h.dashboardService.Statistics(c.Request.Context(), getSession(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// TopExercises godoc
// @Summary Most frequent exercises across saved workouts
// @Tags Stats
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of exercises (default 5, 0 for all)"
// @Success 200 {array} stats.ExerciseCount
// @Router /stats/top-exercises [get]
func (h *StatsHandler) TopExercises(c *gin.Context) {
	limit := stats.DefaultTopExercises // 0 means no limit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			abortWithError(c, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	workouts, err := h.workoutService.List(c.Request.Context(), getSession(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats.TopExercises(workouts, limit))
}

// BMI godoc
// @Summary Body mass index
// @Description Uses the weight and height query parameters, falling back to the profile.
// @Tags Stats
// @Produce json
// @Security BearerAuth
// @Param weight query number false "Weight in kg"
// @Param height query number false "Height in cm"
// @Success 200 {object} stats.BMIResult
// @Failure 400 {object} gin.H "Missing or invalid measurements"
// @Router /bmi [get]
func (h *StatsHandler) BMI(c *gin.Context) {
	// Start from the profile, query parameters override each value
	profile := getSession(c).Profile
	weight, height := profile.Weight, profile.Height

	var err error
	if raw := c.Query("weight"); raw != "" {
		if weight, err = strconv.ParseFloat(raw, 64); err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("invalid weight %q", raw))
			return
		}
	}
	if raw := c.Query("height"); raw != "" {
		if height, err = strconv.ParseFloat(raw, 64); err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("invalid height %q", raw))
			return
		}
	}

	result, err := stats.BMI(weight, height)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Streak godoc
// @Summary Consecutive training days
// @Tags Stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.StreakState
// @Router /streak [get]
func (h *StatsHandler) Streak(c *gin.Context) {
	st, err := h.streakService.Get(c.Request.Context(), getSession(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
