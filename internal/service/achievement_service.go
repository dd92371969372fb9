package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/metrics"
	"alcyxob/fitness-tracker/internal/notify"
	"alcyxob/fitness-tracker/internal/repository"
	"alcyxob/fitness-tracker/internal/stats"
	"alcyxob/fitness-tracker/internal/store"
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

// milestones labels each 25% band of catalog completion.
var milestones = map[int]string{
	25:  "25% - Principiante",
	50:  "50% - Intermedio",
	75:  "75% - Avanzado",
	100: "100% - Maestro Fitness",
}

type AchievementProgress struct {
	Unlocked      int     `json:"unlocked"`
	Total         int     `json:"total"`
	Percentage    float64 `json:"percentage"`
	NextMilestone string  `json:"nextMilestone"`
}

type AchievementStatus struct {
	domain.Achievement
	// RarityRank orders the tiers, 0 for common up to 4 for legendary.
	RarityRank int  `json:"rarityRank"`
	Unlocked   bool `json:"unlocked"`
}

type AchievementService interface {
	// Unlock records id once. It reports false, with no write and no
	// notification, for unknown or already unlocked ids.
	Unlock(ctx context.Context, sess domain.Session, id string) (bool, error)
	// Grant is Unlock for ids supplied by a user; unknown ids are an error.
	Grant(ctx context.Context, sess domain.Session, id string) (bool, error)
	// Evaluate runs every rule against the stored records and returns the ids
	// it newly unlocked, in catalog order.
	Evaluate(ctx context.Context, sess domain.Session) ([]string, error)
	Progress(ctx context.Context, sess domain.Session) (AchievementProgress, error)
	List(ctx context.Context, sess domain.Session) ([]AchievementStatus, error)
}

// ruleInput is the snapshot of user records the rules are evaluated on.
type ruleInput struct {
	workouts []domain.Workout
	weights  []domain.WeightEntry
	profile  domain.Profile
	streak   int
	now      time.Time
}

type rule func(in ruleInput) bool

// rules holds an automatic check per catalog id. first_login and
// workout_completed have none; they are unlocked by the actions they name.

var rules = map[string]rule{
	domain.AchievementFirstWorkout: func(in ruleInput) bool {
		return stats.CompletedCount(in.workouts) >= 1
	},
	domain.AchievementWeekWarrior: func(in ruleInput) bool {
		return stats.CompletedSince(in.workouts, in.now.Add(-stats.Week)) >= 5
	},
	domain.AchievementMonthMaster: func(in ruleInput) bool {
		return stats.CompletedSince(in.workouts, in.now.Add(-stats.Month)) >= 20
	},
	domain.AchievementWeightLogged: func(in ruleInput) bool {
		return len(in.weights) >= 5
	},
	domain.AchievementProfileComplete: func(in ruleInput) bool {
		return in.profile.IsComplete()
	},
	domain.AchievementRoutineCreated: func(in ruleInput) bool {
		return len(in.workouts) >= 1
	},
	domain.AchievementFiveRoutines: func(in ruleInput) bool {
		return len(in.workouts) >= 5
	},
	domain.AchievementIronLifter: func(in ruleInput) bool {
		return stats.CompletedCount(in.workouts) >= 100
	},
	domain.AchievementConsistencyKing: func(in ruleInput) bool {
		return in.streak >= 30
	},
	domain.AchievementTenKilos: func(in ruleInput) bool {
		ws, ok := stats.Weight(in.weights)
		return ok && ws.Initial-ws.Current >= 10
	},
}

// --- Service Implementation ---

type achievementService struct {
	store    *store.Store
	workouts *store.Collection[domain.Workout]
	weights  *store.Collection[domain.WeightEntry]
	profiles profiles
	notifier notify.Notifier
	metrics  *metrics.Manager
	clock    Clock
}

// NewAchievementService creates the achievement engine. users may be nil, in
// which case the session profile is used for profile rules.
func NewAchievementService(
	s *store.Store,
	users repository.UserRepository,
	notifier notify.Notifier,
	m *metrics.Manager,
	clock Clock,
) AchievementService {
	return &achievementService{
		store:    s,
		workouts: workoutCollection(s),
		weights:  weightCollection(s),
		profiles: profiles{users: users},
		notifier: notifier,
		metrics:  m,
		clock:    clock,
	}
}

func (s *achievementService) Unlock(ctx context.Context, sess domain.Session, id string) (bool, error) {
	// Guests and unknown ids are a silent no-op
	if !sess.IsAuthenticated() {
		return false, nil
	}
	ach, known := domain.LookupAchievement(id)
	if !known {
		return false, nil
	}

	added, err := s.store.AddAchievement(ctx, sess, id)
	if err != nil || !added {
		return false, err
	}

	// Only a new unlock is logged, counted and announced
	logrus.WithFields(logrus.Fields{"user": sess.Username, "achievement": id}).Info("achievement unlocked")
	if s.metrics != nil {
		s.metrics.CounterAchievementsUnlocked.WithLabelValues(id).Inc()
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, sess.Username, notify.Notification{
			Kind:    notify.KindAchievement,
			Title:   "¡LOGRO DESBLOQUEADO!",
			Message: fmt.Sprintf("%s: %s", ach.Name, ach.Description),
		})
	}
	return true, nil
}

func (s *achievementService) Grant(ctx context.Context, sess domain.Session, id string) (bool, error) {
	if err := requireSession(sess); err != nil {
		return false, err
	}
	if _, known := domain.LookupAchievement(id); !known {
		return false, fmt.Errorf("%w: %q", ErrUnknownAchievement, id)
	}
	return s.Unlock(ctx, sess, id)
}

func (s *achievementService) Evaluate(ctx context.Context, sess domain.Session) ([]string, error) {
	unlocked := []string{}
	if !sess.IsAuthenticated() {
		return unlocked, nil
	}

	in, err := s.snapshot(ctx, sess)
	if err != nil {
		return nil, err
	}

	// Catalog order keeps the returned ids stable
	for _, ach := range domain.Catalog() {
		r, ok := rules[ach.ID]
		if !ok || !r(in) {
			continue
		}
		added, err := s.Unlock(ctx, sess, ach.ID)
		if err != nil {
			return unlocked, err
		}
		if added {
			unlocked = append(unlocked, ach.ID)
		}
	}
	return unlocked, nil
}

// snapshot loads everything the rules look at in one pass.
func (s *achievementService) snapshot(ctx context.Context, sess domain.Session) (ruleInput, error) {
	workouts, err := s.workouts.List(ctx, sess)
	if err != nil {
		return ruleInput{}, err
	}
	weights, err := s.weights.List(ctx, sess)
	if err != nil {
		return ruleInput{}, err
	}
	profile, err := s.profiles.get(ctx, sess)
	if err != nil {
		return ruleInput{}, err
	}
	streak, err := s.store.Streak(ctx, sess)
	if err != nil {
		return ruleInput{}, err
	}
	return ruleInput{
		workouts: workouts,
		weights:  weights,
		profile:  profile,
		streak:   streak.Count,
		now:      s.clock.now(),
	}, nil
}

func (s *achievementService) Progress(ctx context.Context, sess domain.Session) (AchievementProgress, error) {
	total := len(domain.Catalog())
	ids, err := s.store.Achievements(ctx, sess)
	if err != nil {
		return AchievementProgress{}, err
	}

	unlocked := countKnown(ids)

	pct := stats.Percent(unlocked, total)
	// Round down to the band reached; below 25% the first band is next
	step := int(math.Floor(pct/25)) * 25
	if step == 0 {
		step = 25
	}

	return AchievementProgress{
		Unlocked:      unlocked,
		Total:         total,
		Percentage:    pct,
		NextMilestone: milestones[step],
	}, nil
}

// countKnown counts the stored ids that exist in the catalog. Ids left over
// from older catalogs are ignored.
func countKnown(ids []string) int {
	n := 0
	for _, id := range ids {
		if _, known := domain.LookupAchievement(id); known {
			n++
		}
	}
	return n
}

func (s *achievementService) List(ctx context.Context, sess domain.Session) ([]AchievementStatus, error) {
	ids, err := s.store.Achievements(ctx, sess)
	if err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(ids))
	for _, id := range ids {
		have[id] = true
	}

	catalog := domain.Catalog()
	out := make([]AchievementStatus, 0, len(catalog))
	for _, ach := range catalog {
		out = append(out, AchievementStatus{
			Achievement: ach,
			RarityRank:  ach.Rarity.Rank(),
			Unlocked:    have[ach.ID],
		})
	}
	return out, nil
}
