package api

import (
	"alcyxob/fitness-tracker/internal/backup"
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/metrics"
	"alcyxob/fitness-tracker/internal/notify"
	"alcyxob/fitness-tracker/internal/repository/memory"
	"alcyxob/fitness-tracker/internal/service"
	"alcyxob/fitness-tracker/internal/storage"
	"alcyxob/fitness-tracker/internal/store"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

type testServer struct {
	router      *gin.Engine
	metrics     *metrics.Manager
	activeUsers *backup.ActiveUsers
	notifier    *notify.Recorder
	archive     *storage.MemoryStorage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	registry := prometheus.NewRegistry()
	m := metrics.NewManager("fitness", "api_test", registry)
	users := memory.NewUserRepository()
	s := store.New(memory.NewKeyValueStore(), store.WithMetrics(m))
	recorder := notify.NewRecorder()
	archive := storage.NewMemoryStorage("exports")

	streaks := service.NewStreakService(s, time.UTC)
	achievements := service.NewAchievementService(s, users, recorder, m, nil)
	services := Services{
		Auth:         service.NewAuthService(users, "api-test-secret", time.Hour, nil),
		Workouts:     service.NewWorkoutService(s, achievements, streaks, nil),
		Weights:      service.NewWeightService(s, users, nil),
		Notes:        service.NewNoteService(s, nil),
		Reminders:    service.NewReminderService(s, nil),
		Achievements: achievements,
		Streaks:      streaks,
		Dashboard:    service.NewDashboardService(s, users, achievements, streaks, nil),
		Settings:     service.NewSettingsService(s),
		Export:       service.NewExportService(s, users, archive, time.Minute, time.UTC, nil),
	}

	ts := &testServer{
		router:      gin.New(),
		metrics:     m,
		activeUsers: backup.NewActiveUsers(),
		notifier:    recorder,
		archive:     archive,
	}
	SetupRoutes(ts.router, services, ts.activeUsers, m, registry)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

// login registers username and returns a bearer token for it.
func (ts *testServer) login(t *testing.T, username string, profile domain.Profile) string {
	t.Helper()

	rec := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{
		Username: username,
		Password: "correct-horse",
		Profile:  profile,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Username: username, Password: "correct-horse"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, username, resp.User.Username)
	return resp.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestPing(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"pong"}`, rec.Body.String())
}

func TestAuthMiddleware(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/workouts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/workouts", nil)
	req.Header.Set("Authorization", "Token abc")
	rec = httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/workouts", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := ts.login(t, "alice", domain.Profile{})
	rec = ts.do(t, http.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[map[string]any](t, rec)
	assert.Equal(t, "alice", me["username"])

	sessions := ts.activeUsers.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, "alice", sessions[0].Username)
}

func TestRegisterConflictAndBadLogin(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t, "bob", domain.Profile{})

	rec := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{Username: "bob", Password: "another-pass"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{"username": "carol", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Username: "bob", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWorkoutLifecycle(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "alice", domain.Profile{})

	rec := ts.do(t, http.MethodPost, "/api/v1/workouts", token, SaveWorkoutRequest{
		Name: "  Leg day  ",
		Exercises: []domain.ExerciseEntry{
			{ExerciseName: "Squat", Sets: 5, Reps: 5, Weight: 100},
			{ExerciseName: "Lunge", Sets: 3, Reps: 10},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	saved := decode[domain.Workout](t, rec)
	assert.Equal(t, "Leg day", saved.Name)
	assert.False(t, saved.Completed)

	rec = ts.do(t, http.MethodPost, "/api/v1/workouts", token, SaveWorkoutRequest{Name: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/workouts/"+saved.ID+"/complete", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	completed := decode[domain.Workout](t, rec)
	assert.True(t, completed.Completed)
	require.NotNil(t, completed.CompletedDate)

	rec = ts.do(t, http.MethodGet, "/api/v1/streak", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[domain.StreakState](t, rec).Count)

	delivered := ts.notifier.Delivered()
	require.NotEmpty(t, delivered)
	assert.Equal(t, "alice", delivered[0].Username)

	rec = ts.do(t, http.MethodGet, "/api/v1/stats/top-exercises?limit=1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"name":"Squat","count":1}]`, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/v1/stats/top-exercises?limit=-1", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/v1/workouts/"+saved.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = ts.do(t, http.MethodDelete, "/api/v1/workouts/"+saved.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/workouts", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestUsersAreIsolated(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.login(t, "alice", domain.Profile{})
	bob := ts.login(t, "bob", domain.Profile{})

	rec := ts.do(t, http.MethodPost, "/api/v1/notes", alice, NoteRequest{Title: "Dieta", Content: "Más proteína"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/v1/notes", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestWeightsAndBMI(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "alice", domain.Profile{Age: 30, Height: 175})

	rec := ts.do(t, http.MethodGet, "/api/v1/weights/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/v1/bmi", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/weights", token, AddWeightRequest{Weight: 600})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, w := range []float64{80, 78.5, 77} {
		rec = ts.do(t, http.MethodPost, "/api/v1/weights", token, AddWeightRequest{Weight: w})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec = ts.do(t, http.MethodGet, "/api/v1/weights/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ws := decode[map[string]any](t, rec)
	assert.EqualValues(t, 3, ws["count"])

	// Adding a weight updates the profile, so the profile now yields a BMI.
	rec = ts.do(t, http.MethodGet, "/api/v1/bmi", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/v1/bmi?weight=70&height=175", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"bmi":22.9,"category":"Peso normal"}`, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/v1/bmi?weight=heavy", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, query := range []string{"weight=NaN&height=175", "weight=Inf&height=175", "weight=70&height=Inf", "weight=70&height=-Inf"} {
		rec = ts.do(t, http.MethodGet, "/api/v1/bmi?"+query, token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
		assert.Contains(t, decode[map[string]string](t, rec), "error", query)
	}
}

func TestNotesAndReminders(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "alice", domain.Profile{})

	rec := ts.do(t, http.MethodPost, "/api/v1/notes", token, NoteRequest{Title: "Cena", Content: "Ensalada y pollo", Type: domain.NoteNutrition})
	require.Equal(t, http.StatusCreated, rec.Code)
	note := decode[domain.Note](t, rec)

	rec = ts.do(t, http.MethodPost, "/api/v1/notes", token, NoteRequest{Title: "Rodilla", Content: "Molestia leve"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/notes?type=nutrition", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	notes := decode[[]domain.Note](t, rec)
	require.Len(t, notes, 1)
	assert.Equal(t, note.ID, notes[0].ID)

	rec = ts.do(t, http.MethodPost, "/api/v1/notes/"+note.ID+"/pin", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[domain.Note](t, rec).IsPinned)

	rec = ts.do(t, http.MethodPut, "/api/v1/notes/missing", token, NoteRequest{Title: "Nada", Content: "No existe"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/reminders", token, SetReminderRequest{Title: "Entrenar", Time: "25:00"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/reminders", token, SetReminderRequest{Title: "Entrenar", Time: "07:30"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	reminder := decode[domain.Reminder](t, rec)
	assert.Equal(t, domain.DefaultReminderType, reminder.Type)

	rec = ts.do(t, http.MethodDelete, "/api/v1/reminders/"+reminder.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAchievementsAndDashboard(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "alice", domain.Profile{})

	rec := ts.do(t, http.MethodPost, "/api/v1/dashboard/init", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	startup := decode[service.DashboardInit](t, rec)
	assert.Equal(t, []string{domain.AchievementFirstLogin}, startup.NewAchievements)
	assert.Equal(t, domain.DefaultTheme, startup.Theme)

	rec = ts.do(t, http.MethodPost, "/api/v1/achievements/unknown/grant", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/achievements/progress", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	progress := decode[service.AchievementProgress](t, rec)
	assert.Equal(t, 1, progress.Unlocked)
	assert.Equal(t, len(domain.Catalog()), progress.Total)

	rec = ts.do(t, http.MethodGet, "/api/v1/achievements", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]service.AchievementStatus](t, rec), len(domain.Catalog()))

	rec = ts.do(t, http.MethodGet, "/api/v1/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	overview := decode[map[string]json.RawMessage](t, rec)
	for _, section := range []string{"statistics", "recentWorkouts", "weights", "achievements", "progress", "notes", "reminders", "streak", "bmi"} {
		assert.Contains(t, overview, section)
	}
	assert.Equal(t, "null", string(overview["bmi"]))

	rec = ts.do(t, http.MethodGet, "/api/v1/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[map[string]any](t, rec)
	assert.EqualValues(t, 0, st["totalWorkouts"])
	assert.EqualValues(t, 1, st["achievements"])
}

func TestSettingsAndBlobs(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "alice", domain.Profile{})

	rec := ts.do(t, http.MethodPost, "/api/v1/settings/theme/toggle", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"theme":"light"}`, rec.Body.String())

	rec = ts.do(t, http.MethodPut, "/api/v1/settings/theme", token, ThemeRequest{Theme: "sepia"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/blobs/calendar", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", rec.Body.String())

	rec = ts.do(t, http.MethodPut, "/api/v1/blobs/calendar", token, `{"2024-06-10":["Leg day"]}`)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/v1/blobs/calendar", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"2024-06-10":["Leg day"]}`, rec.Body.String())

	rec = ts.do(t, http.MethodPut, "/api/v1/blobs/calendar", token, `{broken`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPut, "/api/v1/blobs/secrets", token, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportImportAndSync(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "alice", domain.Profile{})

	rec := ts.do(t, http.MethodPost, "/api/v1/workouts", token, SaveWorkoutRequest{
		Name:      "Push",
		Exercises: []domain.ExerciseEntry{{ExerciseName: "Bench", Sets: 3, Reps: 8, Weight: 60}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/export/csv", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "fitness-export.csv")
	assert.Contains(t, rec.Body.String(), "Push")

	rec = ts.do(t, http.MethodGet, "/api/v1/export/json", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	exported := rec.Body.String()

	other := ts.login(t, "bob", domain.Profile{})
	rec = ts.do(t, http.MethodPost, "/api/v1/import", other, exported)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/v1/workouts", other, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	workouts := decode[[]domain.Workout](t, rec)
	require.Len(t, workouts, 1)
	assert.Equal(t, "Push", workouts[0].Name)

	rec = ts.do(t, http.MethodPost, "/api/v1/import", other, `{"workouts": "nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/sync/restore", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/sync", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", decode[domain.SyncBackup](t, rec).Username)

	rec = ts.do(t, http.MethodPost, "/api/v1/sync/restore", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/export/archive", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	result := decode[service.ArchiveResult](t, rec)
	assert.True(t, strings.HasPrefix(result.Key, "exports/alice/"))
	_, ok := ts.archive.Object(result.Key)
	assert.True(t, ok)
}

func TestRequestMetrics(t *testing.T) {
	ts := newTestServer(t)

	ts.do(t, http.MethodGet, "/ping", "", nil)
	ts.do(t, http.MethodGet, "/api/v1/workouts", "", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.CounterRequests.WithLabelValues("GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.CounterRequests.WithLabelValues("GET", "401")))

	rec := ts.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fitness_api_test_request")
}
