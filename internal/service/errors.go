package service

import "errors"

// --- Error Definitions ---
var (
	// Session and input errors
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrValidationFailed = errors.New("validation failed")

	// Missing records
	ErrWorkoutNotFound  = errors.New("workout not found")
	ErrWeightNotFound   = errors.New("weight entry not found")
	ErrNoteNotFound     = errors.New("note not found")
	ErrReminderNotFound = errors.New("reminder not found")

	// Achievements, sync and export
	ErrUnknownAchievement = errors.New("unknown achievement")
	ErrNoBackup           = errors.New("no sync backup available")
	ErrArchiveDisabled    = errors.New("archive storage is not configured")

	// Authentication
	ErrUserAlreadyExists    = errors.New("user with this username already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid username or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrInvalidToken         = errors.New("invalid token")
)
