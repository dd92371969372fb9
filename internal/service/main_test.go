package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/metrics"
	"alcyxob/fitness-tracker/internal/notify"
	"alcyxob/fitness-tracker/internal/repository"
	"alcyxob/fitness-tracker/internal/repository/memory"
	"alcyxob/fitness-tracker/internal/storage"
	"alcyxob/fitness-tracker/internal/store"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// failingKV wraps a KeyValueStore and fails every call whose key contains
// one of the poisoned fragments.
type failingKV struct {
	repository.KeyValueStore
	mu       sync.Mutex
	poisoned []string
}

func (f *failingKV) poison(fragment string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.poisoned = append(f.poisoned, fragment)
}

func (f *failingKV) check(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.poisoned {
		if strings.Contains(key, p) {
			return repository.ErrUpdateFailed
		}
	}
	return nil
}

func (f *failingKV) Get(ctx context.Context, key string) (repository.Entry, error) {
	if err := f.check(key); err != nil {
		return repository.Entry{}, err
	}
	return f.KeyValueStore.Get(ctx, key)
}

func (f *failingKV) CompareAndSwap(ctx context.Context, key string, expected int64, value []byte) (int64, error) {
	if err := f.check(key); err != nil {
		return 0, err
	}
	return f.KeyValueStore.CompareAndSwap(ctx, key, expected, value)
}

type fixture struct {
	clock    *testClock
	kv       *failingKV
	store    *store.Store
	users    *memory.UserRepository
	notifier *notify.Recorder
	metrics  *metrics.Manager
	archive  *storage.MemoryStorage
	sess     domain.Session

	achievements AchievementService
	streaks      StreakService
	workouts     WorkoutService
	weights      WeightService
	notes        NoteService
	reminders    ReminderService
	settings     SettingsService
	dashboard    DashboardService
	export       ExportService
	auth         AuthService
}

var fixtureStart = time.Date(2024, 6, 10, 18, 30, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		clock:    &testClock{t: fixtureStart},
		kv:       &failingKV{KeyValueStore: memory.NewKeyValueStore()},
		users:    memory.NewUserRepository(),
		notifier: notify.NewRecorder(),
		metrics:  metrics.NewTestManager(),
		archive:  storage.NewMemoryStorage("archives"),
	}
	clock := Clock(f.clock.Now)
	f.store = store.New(f.kv, store.WithMetrics(f.metrics), store.WithClock(f.clock.Now))

	f.achievements = NewAchievementService(f.store, f.users, f.notifier, f.metrics, clock)
	f.streaks = NewStreakService(f.store, time.UTC)
	f.workouts = NewWorkoutService(f.store, f.achievements, f.streaks, clock)
	f.weights = NewWeightService(f.store, f.users, clock)
	f.notes = NewNoteService(f.store, clock)
	f.reminders = NewReminderService(f.store, clock)
	f.settings = NewSettingsService(f.store)
	f.dashboard = NewDashboardService(f.store, f.users, f.achievements, f.streaks, clock)
	f.export = NewExportService(f.store, f.users, f.archive, time.Hour, time.UTC, clock)
	f.auth = NewAuthService(f.users, "test-secret", time.Hour, nil)

	f.sess = f.newUser(t, gofakeit.Username())
	return f
}

// newUser stores a user directly and returns its session.
func (f *fixture) newUser(t *testing.T, username string) domain.Session {
	t.Helper()
	user := &domain.User{Username: username, PasswordHash: "not-a-real-hash"}
	_, err := f.users.Create(context.Background(), user)
	require.NoError(t, err)
	return domain.NewSession(user)
}

func (f *fixture) saveWorkout(t *testing.T, name string, exercises ...string) *domain.Workout {
	t.Helper()
	entries := make([]domain.ExerciseEntry, 0, len(exercises))
	for _, ex := range exercises {
		entries = append(entries, domain.ExerciseEntry{ExerciseName: ex, Sets: 3, Reps: 10, Weight: 20})
	}
	w, err := f.workouts.Save(context.Background(), f.sess, name, entries, "")
	require.NoError(t, err)
	return w
}
