package observability

import (
	"time"

	"github.com/ecamposv/mkt-performance-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the dashboard service.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	recomputes      *prometheus.CounterVec
	anomalies       prometheus.Counter
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	alerts          *prometheus.CounterVec
	datasetRows     *prometheus.GaugeVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mktperf_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		recomputes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mktperf_recomputes_total",
				Help: "Total dashboard recomputes by granularity.",
			},
			[]string{"granularity"},
		),
		anomalies: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "mktperf_anomaly_days_total",
				Help: "Total anomaly days flagged across recomputes.",
			},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mktperf_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mktperf_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		alerts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mktperf_alerts_total",
				Help: "Total anomaly alerts by delivery status.",
			},
			[]string{"status"},
		),
		datasetRows: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "mktperf_dataset_rows",
				Help: "Rows currently loaded per dataset.",
			},
			[]string{"dataset"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrRecompute increments the recompute counter for a granularity.
func (m *Metrics) IncrRecompute(granularity string) {
	m.recomputes.WithLabelValues(granularity).Inc()
}

// AddAnomalyDays records anomaly days flagged by a recompute.
func (m *Metrics) AddAnomalyDays(n int) {
	if n > 0 {
		m.anomalies.Add(float64(n))
	}
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrAlert increments the alert counter with a delivery status label.
func (m *Metrics) IncrAlert(status string) {
	m.alerts.WithLabelValues(status).Inc()
}

// SetDatasetRows records the row count of a loaded dataset.
func (m *Metrics) SetDatasetRows(dataset string, rows int) {
	m.datasetRows.WithLabelValues(dataset).Set(float64(rows))
}

// GetEngineSnapshot returns a snapshot of engine-related metrics suitable
// for the GET /v1/metrics/engine endpoint.
func (m *Metrics) GetEngineSnapshot() *domain.EngineMetrics {
	// Gather current values from Prometheus counters.
	// Note: Prometheus counters expose cumulative values.
	recomputes := getCounterValue(m.recomputes, "daily") +
		getCounterValue(m.recomputes, "weekly") +
		getCounterValue(m.recomputes, "monthly")
	cacheHits := getCounterValue(m.cacheHits, "dashboard")
	cacheMisses := getCounterValue(m.cacheMisses, "dashboard")
	alertsSent := getCounterValue(m.alerts, "sent")
	alertsFailed := getCounterValue(m.alerts, "failed")

	cacheHitRate := float64(0)
	if cacheHits+cacheMisses > 0 {
		cacheHitRate = cacheHits / (cacheHits + cacheMisses)
	}

	anomalies := float64(0)
	dtoMetric := &dto.Metric{}
	if err := m.anomalies.Write(dtoMetric); err == nil && dtoMetric.Counter != nil && dtoMetric.Counter.Value != nil {
		anomalies = *dtoMetric.Counter.Value
	}

	return &domain.EngineMetrics{
		TotalRecomputes:  int64(recomputes),
		AnomaliesFlagged: int64(anomalies),
		CacheHitRate:     cacheHitRate,
		AlertsSent:       int64(alertsSent),
		AlertsFailed:     int64(alertsFailed),
		Period:           "all_time",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
