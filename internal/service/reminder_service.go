package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/store"
	"context"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	minReminderTitle   = 3
	reminderTimeLayout = "15:04"
)

type ReminderService interface {
	// Set adds an active reminder. timeOfDay is HH:MM; an empty type means
	// domain.DefaultReminderType.
	Set(ctx context.Context, sess domain.Session, title, timeOfDay, reminderType string) (*domain.Reminder, error)
	List(ctx context.Context, sess domain.Session) ([]domain.Reminder, error)
	Delete(ctx context.Context, sess domain.Session, id string) error
}

// --- Service Implementation ---

type reminderService struct {
	reminders *store.Collection[domain.Reminder]
	clock     Clock
}

func NewReminderService(s *store.Store, clock Clock) ReminderService {
	return &reminderService{reminders: reminderCollection(s), clock: clock}
}

func (s *reminderService) Set(ctx context.Context, sess domain.Session, title, timeOfDay, reminderType string) (*domain.Reminder, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}

	// 1. Basic Input Validation
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) < minReminderTitle {
		return nil, validationError("title must be at least %d characters", minReminderTitle)
	}
	timeOfDay = strings.TrimSpace(timeOfDay)
	// time.Parse accepts "9:05", so the length check keeps the zero padding strict
	if len(timeOfDay) != len(reminderTimeLayout) {
		return nil, validationError("time must be HH:MM")
	}
	if _, err := time.Parse(reminderTimeLayout, timeOfDay); err != nil {
		return nil, validationError("time must be HH:MM")
	}
	if reminderType == "" {
		reminderType = domain.DefaultReminderType
	}

	// 2. Create and persist the reminder
	id, err := newID()
	if err != nil {
		return nil, err
	}
	reminder := domain.Reminder{
		ID:      id,
		Title:   title,
		Time:    timeOfDay,
		Type:    reminderType,
		Created: s.clock.now(),
		Active:  true,
	}
	if _, err := s.reminders.Append(ctx, sess, reminder); err != nil {
		return nil, err
	}
	return &reminder, nil
}

func (s *reminderService) List(ctx context.Context, sess domain.Session) ([]domain.Reminder, error) {
	return s.reminders.List(ctx, sess)
}

func (s *reminderService) Delete(ctx context.Context, sess domain.Session, id string) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	removed, err := s.reminders.Remove(ctx, sess, id)
	if err != nil {
		return err
	}
	if !removed {
		return ErrReminderNotFound
	}
	return nil
}
