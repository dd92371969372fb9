// Package backup periodically snapshots the data of active users into their
// sync backup slot.
package backup

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/metrics"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// Syncer writes the sync backup of one user.
type Syncer interface {
	SyncBackup(ctx context.Context, sess domain.Session) (*domain.SyncBackup, error)
}

type Job struct {
	syncer   Syncer
	users    *ActiveUsers
	interval time.Duration
	metrics  *metrics.Manager

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewJob(syncer Syncer, users *ActiveUsers, interval time.Duration, m *metrics.Manager) *Job {
	return &Job{
		syncer:   syncer,
		users:    users,
		interval: interval,
		metrics:  m,
	}
}

// Start launches the sync loop. It is a no-op if the job is already running.
// The loop ends when ctx is cancelled or Stop is called.
func (j *Job) Start(ctx context.Context) error {
	if j.interval <= 0 {
		return errors.New("sync interval must be positive")
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.done = make(chan struct{})

	go j.loop(ctx, j.done)
	logrus.Infof("backup sync job started, interval %s", j.interval)
	return nil
}

// Stop cancels the loop and waits for it to return. A sync in progress sees
// a cancelled context.
func (j *Job) Stop() {
	j.mu.Lock()
	cancel, done := j.cancel, j.done
	j.cancel, j.done = nil, nil
	j.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	logrus.Info("backup sync job stopped")
}

func (j *Job) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.RunOnce(ctx); err != nil {
				logrus.Warnf("backup sync finished with errors: %v", err)
			}
		}
	}
}

// RunOnce syncs every active user. A failing user does not stop the others;
// all failures are returned combined.
func (j *Job) RunOnce(ctx context.Context) error {
	var errs error
	for _, sess := range j.users.Sessions() {
		if ctx.Err() != nil {
			return multierr.Append(errs, ctx.Err())
		}

		log := logrus.WithField("user", sess.Username)
		if _, err := j.syncer.SyncBackup(ctx, sess); err != nil {
			log.Errorf("sync backup: %v", err)
			j.count("error")
			errs = multierr.Append(errs, err)
			continue
		}
		log.Debug("sync backup written")
		j.count("ok")
	}
	return errs
}

func (j *Job) count(status string) {
	if j.metrics != nil {
		j.metrics.CounterSyncRuns.WithLabelValues(status).Inc()
	}
}
