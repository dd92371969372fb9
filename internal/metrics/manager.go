package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	CounterRequests             *prometheus.CounterVec
	CounterAchievementsUnlocked *prometheus.CounterVec
	CounterSkippedRecords       *prometheus.CounterVec
	CounterStoreConflicts       prometheus.Counter
	CounterSyncRuns             *prometheus.CounterVec
}

func NewTestManager() *Manager {
	return NewManager("fitness", "test", prometheus.NewRegistry())
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request",
			Help:      "The total number of incoming requests",
		}, []string{"method", "status"}),
		CounterAchievementsUnlocked: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "achievements_unlocked",
			Help:      "The total number of achievement unlocks",
		}, []string{"achievement"}),
		CounterSkippedRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "skipped_records",
			Help:      "Stored records skipped on read because they failed to decode or validate",
		}, []string{"collection"}),
		CounterStoreConflicts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "store_conflicts",
			Help:      "The total number of compare-and-swap revision conflicts",
		}),
		CounterSyncRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sync_runs",
			Help:      "The total number of per-user backup sync runs",
		}, []string{"status"}),
	}
}
