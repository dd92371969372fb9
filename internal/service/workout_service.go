package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/store"
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

type WorkoutService interface {
	Save(ctx context.Context, sess domain.Session, name string, exercises []domain.ExerciseEntry, notes string) (*domain.Workout, error)
	List(ctx context.Context, sess domain.Session) ([]domain.Workout, error)
	Delete(ctx context.Context, sess domain.Session, id string) error
	// Complete marks the workout done, unlocks workout_completed and advances
	// the training streak.
	Complete(ctx context.Context, sess domain.Session, id string) (*domain.Workout, error)
}

// --- Service Implementation ---

type workoutService struct {
	workouts     *store.Collection[domain.Workout]
	achievements AchievementService
	streaks      StreakService
	clock        Clock
}

func NewWorkoutService(s *store.Store, achievements AchievementService, streaks StreakService, clock Clock) WorkoutService {
	return &workoutService{
		workouts:     workoutCollection(s),
		achievements: achievements,
		streaks:      streaks,
		clock:        clock,
	}
}

func (s *workoutService) Save(ctx context.Context, sess domain.Session, name string, exercises []domain.ExerciseEntry, notes string) (*domain.Workout, error) {
	// 1. Basic Input Validation
	if err := requireSession(sess); err != nil {
		return nil, err
	}

	// 2. Build the workout; the store keeps it as sent apart from the trimmed name
	id, err := newID()
	if err != nil {
		return nil, err
	}
	if exercises == nil {
		exercises = []domain.ExerciseEntry{}
	}
	workout := domain.Workout{
		ID:        id,
		Name:      strings.TrimSpace(name),
		Exercises: exercises,
		Notes:     notes,
		Date:      s.clock.now(),
	}
	if err := checkStruct(workout); err != nil {
		return nil, err
	}

	// 3. Persist
	if _, err := s.workouts.Append(ctx, sess, workout); err != nil {
		return nil, err
	}
	return &workout, nil
}

func (s *workoutService) List(ctx context.Context, sess domain.Session) ([]domain.Workout, error) {
	return s.workouts.List(ctx, sess)
}

func (s *workoutService) Delete(ctx context.Context, sess domain.Session, id string) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	removed, err := s.workouts.Remove(ctx, sess, id)
	if err != nil {
		return err
	}
	if !removed {
		return ErrWorkoutNotFound
	}
	return nil
}

func (s *workoutService) Complete(ctx context.Context, sess domain.Session, id string) (*domain.Workout, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}

	now := s.clock.now()
	workout, found, err := s.workouts.Update(ctx, sess, id, func(w *domain.Workout) error {
		w.Completed = true
		w.CompletedDate = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrWorkoutNotFound
	}

	// Side effects are logged, not returned: the workout is already completed
	if _, err := s.achievements.Unlock(ctx, sess, domain.AchievementWorkoutCompleted); err != nil {
		logrus.WithField("user", sess.Username).Errorf("unlock workout_completed: %v", err)
	}
	if _, err := s.streaks.Update(ctx, sess, now); err != nil {
		logrus.WithField("user", sess.Username).Errorf("update streak: %v", err)
	}
	return &workout, nil
}
