package api

import (
	"alcyxob/fitness-tracker/internal/backup"
	"alcyxob/fitness-tracker/internal/metrics"
	"alcyxob/fitness-tracker/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services bundles every service the HTTP layer depends on.
type Services struct {
	Auth         service.AuthService
	Workouts     service.WorkoutService
	Weights      service.WeightService
	Notes        service.NoteService
	Reminders    service.ReminderService
	Achievements service.AchievementService
	Streaks      service.StreakService
	Dashboard    service.DashboardService
	Settings     service.SettingsService
	Export       service.ExportService
}

func SetupRoutes(
	router *gin.Engine,
	services Services,
	activeUsers *backup.ActiveUsers,
	metricsManager *metrics.Manager,
	promRegistry *prometheus.Registry,
) {
	// --- Handlers ---
	authHandler := NewAuthHandler(services.Auth)
	workoutHandler := NewWorkoutHandler(services.Workouts)
	weightHandler := NewWeightHandler(services.Weights)
	noteHandler := NewNoteHandler(services.Notes)
	reminderHandler := NewReminderHandler(services.Reminders)
	achievementHandler := NewAchievementHandler(services.Achievements)
	statsHandler := NewStatsHandler(services.Dashboard, services.Workouts, services.Streaks)
	dashboardHandler := NewDashboardHandler(services.Dashboard)
	settingsHandler := NewSettingsHandler(services.Settings)
	exportHandler := NewExportHandler(services.Export)

	// Registered before any route so every request is counted
	if metricsManager != nil {
		router.Use(RequestMetrics(metricsManager))
	}

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if promRegistry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{})))
	}

	// --- Public Routes ---
	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	// --- Protected Routes (Bearer JWT) ---
	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(services.Auth, activeUsers))
	{
		protected.GET("/me", authHandler.Me)
		protected.PUT("/me/profile", authHandler.UpdateProfile)

		// --- Record Routes ---
		workouts := protected.Group("/workouts")
		{
			workouts.GET("", workoutHandler.ListWorkouts)
			workouts.POST("", workoutHandler.SaveWorkout)
			workouts.DELETE("/:id", workoutHandler.DeleteWorkout)
			workouts.POST("/:id/complete", workoutHandler.CompleteWorkout)
		}

		weights := protected.Group("/weights")
		{
			weights.GET("", weightHandler.ListWeights)
			weights.POST("", weightHandler.AddWeight)
			weights.GET("/stats", weightHandler.WeightStats)
			weights.DELETE("/:id", weightHandler.DeleteWeight)
		}

		notes := protected.Group("/notes")
		{
			notes.GET("", noteHandler.ListNotes)
			notes.POST("", noteHandler.AddNote)
			notes.PUT("/:id", noteHandler.UpdateNote)
			notes.DELETE("/:id", noteHandler.DeleteNote)
			notes.POST("/:id/pin", noteHandler.TogglePin)
		}

		reminders := protected.Group("/reminders")
		{
			reminders.GET("", reminderHandler.ListReminders)
			reminders.POST("", reminderHandler.SetReminder)
			reminders.DELETE("/:id", reminderHandler.DeleteReminder)
		}

		// --- Achievement & Statistics Routes ---
		achievements := protected.Group("/achievements")
		{
			achievements.GET("", achievementHandler.ListAchievements)
			achievements.GET("/progress", achievementHandler.Progress)
			achievements.POST("/evaluate", achievementHandler.Evaluate)
			achievements.POST("/:id/grant", achievementHandler.Grant)
		}

		protected.GET("/stats", statsHandler.Statistics)
		protected.GET("/stats/top-exercises", statsHandler.TopExercises)
		protected.GET("/bmi", statsHandler.BMI)
		protected.GET("/streak", statsHandler.Streak)

		protected.POST("/dashboard/init", dashboardHandler.Init)
		protected.GET("/dashboard", dashboardHandler.Overview)

		// --- Settings & Blob Routes ---
		settings := protected.Group("/settings")
		{
			settings.GET("/theme", settingsHandler.GetTheme)
			settings.PUT("/theme", settingsHandler.SetTheme)
			settings.POST("/theme/toggle", settingsHandler.ToggleTheme)
		}
		protected.GET("/blobs/:name", settingsHandler.GetBlob)
		protected.PUT("/blobs/:name", settingsHandler.PutBlob)

		// --- Export, Import & Sync Routes ---
		protected.GET("/export/json", exportHandler.ExportJSON)
		protected.GET("/export/csv", exportHandler.ExportCSV)
		protected.POST("/export/archive", exportHandler.Archive)
		protected.POST("/import", exportHandler.Import)
		protected.POST("/sync", exportHandler.Sync)
		protected.POST("/sync/restore", exportHandler.Restore)
	}
}
