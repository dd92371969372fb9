package backup

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/metrics"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/multierr"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSyncer struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (f *fakeSyncer) SyncBackup(_ context.Context, sess domain.Session) (*domain.SyncBackup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, sess.Username)
	if err := f.fail[sess.Username]; err != nil {
		return nil, err
	}
	return &domain.SyncBackup{Username: sess.Username}, nil
}

func (f *fakeSyncer) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func TestActiveUsers(t *testing.T) {
	users := NewActiveUsers()
	users.Touch(domain.Session{Username: "bob"})
	users.Touch(domain.Session{Username: "alice"})
	users.Touch(domain.Session{Username: "bob", UserID: "2"})
	users.Touch(domain.Session{})

	sessions := users.Sessions()
	require.Len(t, sessions, 2)
	assert.Equal(t, "alice", sessions[0].Username)
	assert.Equal(t, "2", sessions[1].UserID)

	users.Forget("alice")
	assert.Len(t, users.Sessions(), 1)
}

func TestJob_RunOnceContinuesPastFailures(t *testing.T) {
	boom := errors.New("boom")
	syncer := &fakeSyncer{fail: map[string]error{"bob": boom}}
	users := NewActiveUsers()
	for _, name := range []string{"alice", "bob", "carol"} {
		users.Touch(domain.Session{Username: name})
	}
	m := metrics.NewTestManager()

	err := NewJob(syncer, users, time.Minute, m).RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Len(t, multierr.Errors(err), 1)
	assert.Equal(t, []string{"alice", "bob", "carol"}, syncer.Calls())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterSyncRuns.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterSyncRuns.WithLabelValues("error")))
}

func TestJob_TicksUntilStopped(t *testing.T) {
	syncer := &fakeSyncer{}
	users := NewActiveUsers()
	users.Touch(domain.Session{Username: "alice"})

	job := NewJob(syncer, users, 5*time.Millisecond, nil)
	require.NoError(t, job.Start(context.Background()))
	require.NoError(t, job.Start(context.Background()))

	assert.Eventually(t, func() bool {
		return len(syncer.Calls()) >= 2
	}, time.Second, time.Millisecond)

	job.Stop()
	job.Stop()

	after := len(syncer.Calls())
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, len(syncer.Calls()))
}

func TestJob_StopsOnContextCancel(t *testing.T) {
	job := NewJob(&fakeSyncer{}, NewActiveUsers(), time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, job.Start(ctx))
	cancel()

	// Stop still waits for the already-exiting loop
	job.Stop()
}

func TestJob_RejectsBadInterval(t *testing.T) {
	job := NewJob(&fakeSyncer{}, NewActiveUsers(), 0, nil)
	assert.Error(t, job.Start(context.Background()))
}
