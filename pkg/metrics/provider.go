package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ProviderMetrics records the reconciliation daemon's activity. Pass nil to
// disable collection with zero overhead.
type ProviderMetrics interface {
	// RecordDiscoveryCycle records one completed discovery cycle.
	RecordDiscoveryCycle(duration time.Duration, filesExamined int)

	// RecordClaim records one claim attempt by outcome:
	// "claimed", "duplicate", or "error".
	RecordClaim(outcome string)

	// RecordReconciliation records one completed usage reconciliation pass.
	RecordReconciliation(duration time.Duration, usersUpdated int)

	// RecordHeartbeat records one heartbeat write by outcome:
	// "ok" or "error".
	RecordHeartbeat(outcome string)
}

type providerMetrics struct {
	discoveryCycles   prometheus.Counter
	discoveryDuration prometheus.Histogram
	filesExamined     prometheus.Counter
	claimsTotal       *prometheus.CounterVec
	reconcileRuns     prometheus.Counter
	reconcileDuration prometheus.Histogram
	usersUpdated      prometheus.Counter
	heartbeatsTotal   *prometheus.CounterVec
}

// NewProviderMetrics creates a Prometheus-backed ProviderMetrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewProviderMetrics() ProviderMetrics {
	if !IsEnabled() {
		return nil
	}

	reg := GetRegistry()

	return &providerMetrics{
		discoveryCycles: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "storweave_discovery_cycles_total",
			Help: "Total number of completed discovery cycles",
		}),
		discoveryDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "storweave_discovery_cycle_duration_seconds",
			Help:    "Duration of discovery cycles in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 15, 30, 60},
		}),
		filesExamined: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "storweave_discovery_files_examined_total",
			Help: "Total number of candidate files examined during discovery",
		}),
		claimsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "storweave_claims_total",
			Help: "Total number of claim attempts by outcome",
		}, []string{"outcome"}),
		reconcileRuns: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "storweave_usage_reconciliations_total",
			Help: "Total number of completed usage reconciliation passes",
		}),
		reconcileDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "storweave_usage_reconciliation_duration_seconds",
			Help:    "Duration of usage reconciliation passes in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
		}),
		usersUpdated: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "storweave_usage_users_updated_total",
			Help: "Total number of per-user usage rows written",
		}),
		heartbeatsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "storweave_heartbeats_total",
			Help: "Total number of heartbeat writes by outcome",
		}, []string{"outcome"}),
	}
}

func (m *providerMetrics) RecordDiscoveryCycle(duration time.Duration, filesExamined int) {
	m.discoveryCycles.Inc()
	m.discoveryDuration.Observe(duration.Seconds())
	m.filesExamined.Add(float64(filesExamined))
}

func (m *providerMetrics) RecordClaim(outcome string) {
	m.claimsTotal.WithLabelValues(outcome).Inc()
}

func (m *providerMetrics) RecordReconciliation(duration time.Duration, usersUpdated int) {
	m.reconcileRuns.Inc()
	m.reconcileDuration.Observe(duration.Seconds())
	m.usersUpdated.Add(float64(usersUpdated))
}

func (m *providerMetrics) RecordHeartbeat(outcome string) {
	m.heartbeatsTotal.WithLabelValues(outcome).Inc()
}
