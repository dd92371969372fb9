package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/store"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type StreakService interface {
	// Update records training at the given instant. The counter starts at 1,
	// grows by one on the next calendar day, resets to 1 after a longer gap
	// and is left alone when the user already trained that day.
	Update(ctx context.Context, sess domain.Session, at time.Time) (domain.StreakState, error)
	// Get returns the stored state; Count is 0 when the user never trained.
	Get(ctx context.Context, sess domain.Session) (domain.StreakState, error)
}

// --- Service Implementation ---

type streakService struct {
	store    *store.Store
	location *time.Location
}

// NewStreakService creates a streak service counting calendar days in loc
// (UTC when nil).
func NewStreakService(s *store.Store, loc *time.Location) StreakService {
	if loc == nil {
		loc = time.UTC
	}
	return &streakService{store: s, location: loc}
}

func (s *streakService) Get(ctx context.Context, sess domain.Session) (domain.StreakState, error) {
	return s.store.Streak(ctx, sess)
}

func (s *streakService) Update(ctx context.Context, sess domain.Session, at time.Time) (domain.StreakState, error) {
	if err := requireSession(sess); err != nil {
		return domain.StreakState{}, err
	}

	state, err := s.store.Streak(ctx, sess)
	if err != nil {
		return domain.StreakState{}, err
	}

	today := at.In(s.location)
	todayKey := today.Format(domain.DateLayout)

	// First training, or a gap of two or more days, starts over at 1
	next := domain.StreakState{LastTrainingDate: todayKey, Count: 1}
	if last, ok := s.parseDay(state.LastTrainingDate); ok {
		switch diff := daysBetween(last, today); {
		case diff == 1:
			next.Count = state.Count + 1
		case diff <= 0:
			// already trained that day, or the clock went backwards
			return state, nil
		}
	} else if state.LastTrainingDate != "" {
		logrus.WithField("user", sess.Username).Warnf("unparsable last training date %q, restarting streak", state.LastTrainingDate)
	}

	if err := s.store.SetStreak(ctx, sess, next); err != nil {
		return domain.StreakState{}, err
	}
	return next, nil
}

func (s *streakService) parseDay(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	day, err := time.ParseInLocation(domain.DateLayout, value, s.location)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

// daysBetween counts calendar days from a to b, ignoring the clock time and
// DST shifts.
func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}
