package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/store"
	"context"
	"encoding/json"
)

type SettingsService interface {
	Theme(ctx context.Context, sess domain.Session) (domain.Theme, error)
	SetTheme(ctx context.Context, sess domain.Session, theme domain.Theme) error
	ToggleTheme(ctx context.Context, sess domain.Session) (domain.Theme, error)
	// Blob returns one of the calendar, progress or mentality documents,
	// or nil when none is stored.
	Blob(ctx context.Context, sess domain.Session, name string) (json.RawMessage, error)
	SetBlob(ctx context.Context, sess domain.Session, name string, value json.RawMessage) error
}

// --- Service Implementation ---

type settingsService struct {
	store *store.Store
}

func NewSettingsService(s *store.Store) SettingsService {
	return &settingsService{store: s}
}

func (s *settingsService) Theme(ctx context.Context, sess domain.Session) (domain.Theme, error) {
	return s.store.Theme(ctx, sess)
}

func (s *settingsService) SetTheme(ctx context.Context, sess domain.Session, theme domain.Theme) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	if !theme.Valid() {
		return validationError("theme must be %q or %q", domain.ThemeDark, domain.ThemeLight)
	}
	return s.store.SetTheme(ctx, sess, theme)
}

func (s *settingsService) ToggleTheme(ctx context.Context, sess domain.Session) (domain.Theme, error) {
	if err := requireSession(sess); err != nil {
		return "", err
	}
	current, err := s.store.Theme(ctx, sess)
	if err != nil {
		return "", err
	}
	next := current.Toggle() // an unset theme reads as dark and toggles to light
	if err := s.store.SetTheme(ctx, sess, next); err != nil {
		return "", err
	}
	return next, nil
}

func (s *settingsService) Blob(ctx context.Context, sess domain.Session, name string) (json.RawMessage, error) {
	if !store.IsBlob(name) {
		return nil, validationError("unknown blob %q", name)
	}
	return s.store.Blob(ctx, sess, name)
}

func (s *settingsService) SetBlob(ctx context.Context, sess domain.Session, name string, value json.RawMessage) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	if !store.IsBlob(name) {
		return validationError("unknown blob %q", name)
	}
	if len(value) > 0 && !json.Valid(value) {
		return validationError("blob %q must be valid JSON", name)
	}
	return s.store.SetBlob(ctx, sess, name, value)
}
