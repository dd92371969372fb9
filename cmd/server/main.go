package main

import (
	"alcyxob/fitness-tracker/internal/api"
	"alcyxob/fitness-tracker/internal/backup"
	"alcyxob/fitness-tracker/internal/config"
	"alcyxob/fitness-tracker/internal/logging"
	"alcyxob/fitness-tracker/internal/metrics"
	"alcyxob/fitness-tracker/internal/notify"
	"alcyxob/fitness-tracker/internal/repository"
	"alcyxob/fitness-tracker/internal/repository/memory"
	"alcyxob/fitness-tracker/internal/repository/mongo"
	"alcyxob/fitness-tracker/internal/service"
	"alcyxob/fitness-tracker/internal/storage"
	"alcyxob/fitness-tracker/internal/store"
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

// @title Fitness Tracker API
// @version 1.0
// @description Personal workout, weight, journal and achievement tracking.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logrus.Fatalf("could not load config: %v", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   cfg.Log.Stdout,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})
	logrus.Infoln("starting fitness tracker server ...")

	loc, err := cfg.Store.Location()
	if err != nil {
		logrus.Fatalf("invalid store timezone: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Repositories ---
	var (
		userRepo repository.UserRepository
		kv       repository.KeyValueStore
	)
	switch cfg.Database.Driver {
	case config.DriverMongo:
		dbClient, err := mongo.ConnectDB(cfg.Database.URI)
		if err != nil {
			logrus.Fatalf("could not connect to MongoDB: %v", err)
		}
		defer func() {
			logrus.Infoln("disconnecting MongoDB ...")
			if err := mongo.DisconnectDB(dbClient); err != nil {
				logrus.Errorf("failed to disconnect MongoDB: %v", err)
			}
		}()
		appDB := dbClient.Database(cfg.Database.Name)

		go func() {
			indexCtx, indexCancel := context.WithTimeout(ctx, time.Minute)
			defer indexCancel()
			mongo.EnsureIndexes(indexCtx, appDB)
		}()

		userRepo = mongo.NewMongoUserRepository(appDB)
		kv = mongo.NewMongoRecordRepository(appDB)
		logrus.Infof("using MongoDB database %s", cfg.Database.Name)
	case config.DriverMemory:
		userRepo = memory.NewUserRepository()
		kv = memory.NewKeyValueStore()
		logrus.Warnln("using in-memory storage, data is lost on restart")
	}

	// --- Metrics ---
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector())
	promRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsManager := metrics.NewManager("fitness", "tracker", promRegistry)

	recordStore := store.New(kv,
		store.WithNamespace(cfg.Store.Namespace),
		store.WithMetrics(metricsManager),
	)

	// --- Archive storage ---
	var archive storage.ArchiveStorage
	if cfg.S3.Enabled {
		archive, err = storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			logrus.Fatalf("failed to initialize S3 storage: %v", err)
		}
	}

	// --- Services ---
	streakService := service.NewStreakService(recordStore, loc)
	achievementService := service.NewAchievementService(recordStore, userRepo, notify.NewLogNotifier(), metricsManager, nil)
	exportService := service.NewExportService(recordStore, userRepo, archive, cfg.S3.URLExpiry, loc, nil)
	services := api.Services{
		Auth:         service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration, nil),
		Workouts:     service.NewWorkoutService(recordStore, achievementService, streakService, nil),
		Weights:      service.NewWeightService(recordStore, userRepo, nil),
		Notes:        service.NewNoteService(recordStore, nil),
		Reminders:    service.NewReminderService(recordStore, nil),
		Achievements: achievementService,
		Streaks:      streakService,
		Dashboard:    service.NewDashboardService(recordStore, userRepo, achievementService, streakService, nil),
		Settings:     service.NewSettingsService(recordStore),
		Export:       exportService,
	}

	// --- Background sync ---
	activeUsers := backup.NewActiveUsers()
	if cfg.Sync.Enabled {
		syncJob := backup.NewJob(exportService, activeUsers, cfg.Sync.Interval, metricsManager)
		if err := syncJob.Start(ctx); err != nil {
			logrus.Fatalf("failed to start sync job: %v", err)
		}
		defer syncJob.Stop()
	}

	// --- HTTP ---
	if !logrus.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, services, activeUsers, metricsManager, promRegistry)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logrus.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Errorf("listen and serve: %v", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logrus.Infoln("shutting down server ...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("server forced to shutdown: %v", err)
	}
	logrus.Infoln("server exiting")
}
