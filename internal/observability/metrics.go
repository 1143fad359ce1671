package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riskibarqy/race-predictor/internal/platform/resilience"
)

// SyncMetrics exports race-sync and poller outcomes to Prometheus. It
// satisfies usecase.SyncMetrics.
type SyncMetrics struct {
	registry       *prometheus.Registry
	raceSyncs      *prometheus.CounterVec
	raceSyncTime   *prometheus.HistogramVec
	scoreWrites    *prometheus.CounterVec
	pollerRaces    *prometheus.CounterVec
	pollerRuns     prometheus.Counter
	breakerChanges *prometheus.CounterVec
}

func NewSyncMetrics(namespace string) *SyncMetrics {
	if namespace == "" {
		namespace = "race_predictor"
	}
	m := &SyncMetrics{
		registry: prometheus.NewRegistry(),
		raceSyncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "race_syncs_total",
			Help:      "Race result syncs by trigger and outcome.",
		}, []string{"trigger", "status"}),
		raceSyncTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "race_sync_duration_seconds",
			Help:      "Wall time of one race sync.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"trigger"}),
		scoreWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scores_written_total",
			Help:      "Score rows written by sync, split by create and update.",
		}, []string{"kind"}),
		pollerRaces: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poller_races_total",
			Help:      "Races seen by the poller by outcome.",
		}, []string{"outcome"}),
		pollerRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poller_runs_total",
			Help:      "Completed poller runs.",
		}),
		breakerChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_transitions_total",
			Help:      "Circuit breaker state transitions.",
		}, []string{"name", "to"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.raceSyncs,
		m.raceSyncTime,
		m.scoreWrites,
		m.pollerRaces,
		m.pollerRuns,
		m.breakerChanges,
	)
	return m
}

func (m *SyncMetrics) ObserveRaceSync(trigger, status string, duration time.Duration) {
	m.raceSyncs.WithLabelValues(trigger, status).Inc()
	m.raceSyncTime.WithLabelValues(trigger).Observe(duration.Seconds())
}

func (m *SyncMetrics) ObserveRoomScored(created, updated int) {
	m.scoreWrites.WithLabelValues("created").Add(float64(created))
	m.scoreWrites.WithLabelValues("updated").Add(float64(updated))
}

func (m *SyncMetrics) ObservePollerRun(processed, synced, skipped, failed int) {
	m.pollerRuns.Inc()
	m.pollerRaces.WithLabelValues("processed").Add(float64(processed))
	m.pollerRaces.WithLabelValues("synced").Add(float64(synced))
	m.pollerRaces.WithLabelValues("skipped").Add(float64(skipped))
	m.pollerRaces.WithLabelValues("failed").Add(float64(failed))
}

// ObserveBreaker counts transitions of b. A nil breaker is ignored.
func (m *SyncMetrics) ObserveBreaker(b *resilience.CircuitBreaker) {
	if b == nil {
		return
	}
	b.OnStateChange(func(name string, _, to resilience.CircuitState) {
		m.breakerChanges.WithLabelValues(name, string(to)).Inc()
	})
}

func (m *SyncMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
