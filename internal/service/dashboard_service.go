package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"alcyxob/fitness-tracker/internal/stats"
	"alcyxob/fitness-tracker/internal/store"
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

const recentItems = 5

type DashboardInit struct {
	NewAchievements []string     `json:"newAchievements"`
	Theme           domain.Theme `json:"theme"`
}

type Statistics struct {
	stats.WorkoutStats
	TopExercises    []stats.ExerciseCount `json:"topExercises"`
	WeightStats     *stats.WeightStats    `json:"weightStats"`
	Achievements    int                   `json:"achievements"`
	AllAchievements int                   `json:"allAchievements"`
}

// SectionError replaces the payload of an overview section that failed.
type SectionError struct {
	Error string `json:"error"`
}

// Overview maps section names to their payload or a SectionError.
type Overview map[string]any

type DashboardService interface {
	// Init evaluates achievement rules, grants first_login and returns the
	// ids unlocked by this call together with the stored theme.
	Init(ctx context.Context, sess domain.Session) (*DashboardInit, error)
	Statistics(ctx context.Context, sess domain.Session) (*Statistics, error)
	// Overview builds every dashboard section independently; a failing
	// section is reported in place and never hides its siblings.
	Overview(ctx context.Context, sess domain.Session) Overview
}

// --- Service Implementation ---

type dashboardService struct {
	store        *store.Store
	workouts     *store.Collection[domain.Workout]
	weights      *store.Collection[domain.WeightEntry]
	notes        *store.Collection[domain.Note]
	reminders    *store.Collection[domain.Reminder]
	achievements AchievementService
	streaks      StreakService
	profiles     profiles
	clock        Clock
}

func NewDashboardService(
	s *store.Store,
	users repository.UserRepository,
	achievements AchievementService,
	streaks StreakService,
	clock Clock,
) DashboardService {
	return &dashboardService{
		store:        s,
		workouts:     workoutCollection(s),
		weights:      weightCollection(s),
		notes:        noteCollection(s),
		reminders:    reminderCollection(s),
		achievements: achievements,
		streaks:      streaks,
		profiles:     profiles{users: users},
		clock:        clock,
	}
}

func (s *dashboardService) Init(ctx context.Context, sess domain.Session) (*DashboardInit, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}

	// 1. Evaluate the rules against whatever the user already has
	unlocked, err := s.achievements.Evaluate(ctx, sess)
	if err != nil {
		return nil, err
	}
	// 2. Theme for the client to apply
	theme, err := s.store.Theme(ctx, sess)
	if err != nil {
		return nil, err
	}
	// 3. first_login goes last so it follows the rule unlocks
	added, err := s.achievements.Unlock(ctx, sess, domain.AchievementFirstLogin)
	if err != nil {
		return nil, err
	}
	if added {
		unlocked = append(unlocked, domain.AchievementFirstLogin)
	}

	return &DashboardInit{NewAchievements: unlocked, Theme: theme}, nil
}

func (s *dashboardService) Statistics(ctx context.Context, sess domain.Session) (*Statistics, error) {
	workouts, err := s.workouts.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	weights, err := s.weights.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	unlocked, err := s.store.Achievements(ctx, sess)
	if err != nil {
		return nil, err
	}

	out := &Statistics{
		WorkoutStats:    stats.Workouts(workouts, s.clock.now()),
		TopExercises:    stats.TopExercises(workouts, stats.DefaultTopExercises),
		Achievements:    countKnown(unlocked),
		AllAchievements: len(domain.Catalog()),
	}
	if ws, ok := stats.Weight(weights); ok {
		out.WeightStats = &ws
	}
	return out, nil
}

func (s *dashboardService) Overview(ctx context.Context, sess domain.Session) Overview {
	sections := []struct {
		name  string
		build func(context.Context, domain.Session) (any, error)
	}{
		{"statistics", func(ctx context.Context, sess domain.Session) (any, error) { return s.Statistics(ctx, sess) }},
		{"recentWorkouts", s.recentWorkouts},
		{"weights", s.recentWeights},
		{"achievements", func(ctx context.Context, sess domain.Session) (any, error) { return s.achievements.List(ctx, sess) }},
		{"progress", func(ctx context.Context, sess domain.Session) (any, error) { return s.achievements.Progress(ctx, sess) }},
		{"notes", func(ctx context.Context, sess domain.Session) (any, error) { return s.notes.List(ctx, sess) }},
		{"reminders", func(ctx context.Context, sess domain.Session) (any, error) { return s.reminders.List(ctx, sess) }},
		{"streak", func(ctx context.Context, sess domain.Session) (any, error) { return s.streaks.Get(ctx, sess) }},
		{"bmi", s.bmi},
	}

	// --- Build sections; failures stay in their own slot ---
	overview := make(Overview, len(sections))
	for _, sec := range sections {
		data, err := buildSection(ctx, sess, sec.build)
		if err != nil {
			logrus.WithFields(logrus.Fields{"user": sess.Username, "section": sec.name}).Errorf("dashboard section failed: %v", err)
			overview[sec.name] = SectionError{Error: err.Error()}
			continue
		}
		overview[sec.name] = data
	}
	return overview
}

// buildSection turns a panic inside a section into an error for that section.
func buildSection(ctx context.Context, sess domain.Session, build func(context.Context, domain.Session) (any, error)) (data any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("section panicked: %v", r)
		}
	}()
	return build(ctx, sess)
}

func (s *dashboardService) recentWorkouts(ctx context.Context, sess domain.Session) (any, error) {
	workouts, err := s.workouts.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	return lastN(workouts, recentItems), nil
}

func (s *dashboardService) recentWeights(ctx context.Context, sess domain.Session) (any, error) {
	weights, err := s.weights.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	return lastN(weights, recentItems), nil
}

func (s *dashboardService) bmi(ctx context.Context, sess domain.Session) (any, error) {
	profile, err := s.profiles.get(ctx, sess)
	if err != nil {
		return nil, err
	}
	res, err := stats.BMI(profile.Weight, profile.Height)
	if errors.Is(err, stats.ErrBMIUnavailable) {
		return nil, nil // Incomplete profile: the section is null, not an error
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// lastN returns the last n items, newest first.
func lastN[T any](items []T, n int) []T {
	start := len(items) - n
	if start < 0 {
		start = 0
	}
	out := make([]T, 0, len(items)-start)
	for i := len(items) - 1; i >= start; i-- {
		out = append(out, items[i])
	}
	return out
}
