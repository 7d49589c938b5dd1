package observability

import (
	"sync"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scholarsync_redis_errors_total",
		Help: "Total number of Redis errors by operation",
	}, []string{"operation"})

	// DatabaseQueryLatency records statement latency, split by outcome.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scholarsync_database_query_latency_seconds",
		Help:    "Database statement latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	// ToggleOutcomes counts toggle transitions (created, removed, replaced) per resource.
	ToggleOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scholarsync_toggle_outcomes_total",
		Help: "Toggle state transitions by resource and outcome",
	}, []string{"resource", "outcome"})

	// FeedFanoutDuration records how long loading one feed page took.
	FeedFanoutDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scholarsync_feed_fanout_duration_seconds",
		Help:    "Time spent loading type rows for one feed page",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"outcome"})

	// FeedOrphans counts activity pointers whose type row was missing.
	FeedOrphans = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scholarsync_feed_orphan_pointers_total",
		Help: "Activity pointers dropped because the type row was missing",
	}, []string{"type"})

	// CacheResults counts cache lookups by key family and result (hit, miss, error).
	CacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scholarsync_cache_results_total",
		Help: "Cache lookups by key family and result",
	}, []string{"family", "result"})

	// WebSocketConnections is the gauge of live realtime connections.
	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scholarsync_websocket_connections",
		Help: "Number of active WebSocket connections",
	})

	// RealtimeEvents counts realtime events by type and stage (published, delivered, dropped).
	RealtimeEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scholarsync_realtime_events_total",
		Help: "Realtime events by type and stage",
	}, []string{"event_type", "stage"})
)

// Toggle outcomes.
const (
	ToggleCreated  = "created"
	ToggleRemoved  = "removed"
	ToggleReplaced = "replaced"
)

// RecordToggle counts one toggle transition.
func RecordToggle(resource, outcome string) {
	ToggleOutcomes.WithLabelValues(resource, outcome).Inc()
}

// RecordCache counts one cache lookup.
func RecordCache(family, result string) {
	CacheResults.WithLabelValues(family, result).Inc()
}

// dbMetrics feeds DatabaseQueryLatency from the GORM logger.
type dbMetrics struct{}

// DBMetrics is the shared database latency recorder.
var DBMetrics dbMetrics

// Observe records one statement.
func (dbMetrics) Observe(elapsed time.Duration, failed bool) {
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	DatabaseQueryLatency.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// TrackFanout returns a function that records the fan-out duration when called.
func TrackFanout() func(err error) {
	start := time.Now()
	return func(err error) {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		FeedFanoutDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}
}

var (
	httpMetricsOnce sync.Once
	httpMetrics     *fiberprometheus.FiberPrometheus
)

// HTTPMetrics returns the process-wide fiberprometheus collector. The
// collectors register with the default registry once, however many apps
// are built.
func HTTPMetrics(service string) *fiberprometheus.FiberPrometheus {
	httpMetricsOnce.Do(func() {
		httpMetrics = fiberprometheus.New(service)
	})
	return httpMetrics
}
