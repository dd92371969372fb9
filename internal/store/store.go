// Package store is the per-user Record Store: typed collections, opaque blobs
// and scalars persisted in a repository.KeyValueStore under user-scoped keys.
//
// Every operation on an unauthenticated session is a no-op that returns an
// empty result and a nil error. Writes are compare-and-swap on the key
// revision and are retried on conflict, so concurrent writers never lose
// each other's updates.
package store

import (
	"alcyxob/fitness-tracker/internal/metrics"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"
)

const (
	DefaultNamespace  = "fitness"
	defaultMaxRetries = 5
	defaultRetryDelay = 10 * time.Millisecond
)

type Store struct {
	kv         repository.KeyValueStore
	namespace  string
	validate   *validator.Validate
	metrics    *metrics.Manager
	maxRetries uint64
	retryDelay time.Duration
	now        func() time.Time
}

type Option func(*Store)

// WithNamespace sets the key prefix. An empty namespace stores bare keys.
func WithNamespace(ns string) Option {
	return func(s *Store) { s.namespace = ns }
}

func WithMetrics(m *metrics.Manager) Option {
	return func(s *Store) { s.metrics = m }
}

// WithRetry sets how many times a conflicting write is re-applied.
func WithRetry(maxRetries uint64, delay time.Duration) Option {
	return func(s *Store) {
		s.maxRetries = maxRetries
		s.retryDelay = delay
	}
}

// WithClock overrides the time source used for backup timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(kv repository.KeyValueStore, opts ...Option) *Store {
	s := &Store{
		kv:         kv,
		namespace:  DefaultNamespace,
		validate:   validator.New(),
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// read returns the entry for key; a missing key is an empty entry at revision 0.
func (s *Store) read(ctx context.Context, key string) (repository.Entry, error) {
	entry, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Entry{}, nil
		}
		return repository.Entry{}, err
	}
	return entry, nil
}

// mutate runs a read-modify-write on key. fn receives the current raw value
// and returns the new value and whether anything changed. On a revision
// conflict the whole cycle is repeated against the fresh value.
func (s *Store) mutate(ctx context.Context, key string, fn func(current []byte) ([]byte, bool, error)) error {
	backoff := retry.WithMaxRetries(s.maxRetries, retry.NewConstant(s.retryDelay))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		entry, err := s.read(ctx, key)
		if err != nil {
			return err
		}

		next, changed, err := fn(entry.Value)
		if err != nil || !changed {
			return err
		}

		if _, err := s.kv.CompareAndSwap(ctx, key, entry.Revision, next); err != nil {
			if errors.Is(err, repository.ErrRevisionConflict) {
				if s.metrics != nil {
					s.metrics.CounterStoreConflicts.Inc()
				}
				logrus.WithField("key", key).Debug("revision conflict, retrying write")
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
}

// put overwrites key unconditionally (still revision-checked against races).
func (s *Store) put(ctx context.Context, key string, value []byte) error {
	return s.mutate(ctx, key, func([]byte) ([]byte, bool, error) {
		return value, true, nil
	})
}

// remove deletes key. Deleting a missing key is not an error.
func (s *Store) remove(ctx context.Context, key string) error {
	if err := s.kv.Delete(ctx, key); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

func (s *Store) skipped(collection string) {
	if s.metrics != nil {
		s.metrics.CounterSkippedRecords.WithLabelValues(collection).Inc()
	}
}
