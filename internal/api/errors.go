package api

import (
	"alcyxob/fitness-tracker/internal/repository"
	"alcyxob/fitness-tracker/internal/service"
	"alcyxob/fitness-tracker/internal/stats"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// errorStatus maps service and repository errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrNotAuthenticated),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrAuthenticationFailed):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrValidationFailed),
		errors.Is(err, service.ErrUnknownAchievement),
		errors.Is(err, stats.ErrBMIUnavailable):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrWorkoutNotFound),
		errors.Is(err, service.ErrWeightNotFound),
		errors.Is(err, service.ErrNoteNotFound),
		errors.Is(err, service.ErrReminderNotFound),
		errors.Is(err, service.ErrNoBackup),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUserAlreadyExists),
		errors.Is(err, repository.ErrRevisionConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrArchiveDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondWithError aborts with the status matching err. Internal errors are
// logged and hidden from the client.
func respondWithError(c *gin.Context, err error) {
	code := errorStatus(err)
	if code == http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"user":   getSession(c).Username,
		}).Errorf("request failed: %v", err)
		abortWithError(c, code, "An unexpected error occurred")
		return
	}
	abortWithError(c, code, err.Error())
}
