package api

import (
	"alcyxob/fitness-tracker/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// --- Handler Methods ---

// Init godoc
// @Summary Dashboard start-up
// @Description Evaluates achievement rules, grants first_login and returns newly unlocked ids with the theme.
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.DashboardInit
// @Router /dashboard/init [post]
func (h *DashboardHandler) Init(c *gin.Context) {
	result, err := h.dashboardService.Init(c.Request.Context(), getSession(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Overview godoc
// @Summary Every dashboard section in one response
// @Description A section that fails carries {"error": "..."} instead of its data.
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Overview
// @Router /dashboard [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	sess := getSession(c)
	if !sess.IsAuthenticated() {
		respondWithError(c, service.ErrNotAuthenticated)
		return
	}
	c.JSON(http.StatusOK, h.dashboardService.Overview(c.Request.Context(), sess))
}
