package observability

import (
	"time"

	"github.com/cashflowpro/forecast-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the forecast service.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration    *prometheus.HistogramVec
	externalErrors     *prometheus.CounterVec
	cacheHits          *prometheus.CounterVec
	cacheMisses        *prometheus.CounterVec
	simulationsTotal   *prometheus.CounterVec
	simulationDuration prometheus.Histogram
	simulatedDays      prometheus.Counter
	overdraftForecasts prometheus.Counter
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
				Name:    "cfp_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cfp_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cfp_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cfp_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		simulationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cfp_simulations_total",
				Help: "Total simulation runs by outcome.",
			},
			[]string{"status"},
		),
		simulationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cfp_simulation_duration_seconds",
				Help:    "Duration of simulation engine runs.",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
		simulatedDays: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cfp_simulated_days_total",
				Help: "Total days projected across all simulation runs.",
			},
		),
		overdraftForecasts: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cfp_overdraft_forecasts_total",
				Help: "Simulation runs that predicted an overdraft.",
			},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// RecordSimulation records one engine run: outcome, duration, horizon
// and whether the projection hit an overdraft.
func (m *Metrics) RecordSimulation(status string, d time.Duration, days int, overdraft bool) {
	m.simulationsTotal.WithLabelValues(status).Inc()
	m.simulationDuration.Observe(d.Seconds())
	m.simulatedDays.Add(float64(days))
	if overdraft {
		m.overdraftForecasts.Inc()
	}
}

// GetEngineSnapshot returns a snapshot of engine-related metrics for
// the GET /v1/metrics/engine endpoint.
func (m *Metrics) GetEngineSnapshot() *domain.EngineMetrics {
	total := getCounterValue(m.simulationsTotal, "success") +
		getCounterValue(m.simulationsTotal, "error")
	errorCount := getCounterValue(m.simulationsTotal, "error")
	cacheHits := getCounterValue(m.cacheHits, "forecast")
	cacheMisses := getCounterValue(m.cacheMisses, "forecast")
	overdrafts := getPlainCounterValue(m.overdraftForecasts)
	simulatedDays := getPlainCounterValue(m.simulatedDays)

	errorRate := float64(0)
	avgDays := float64(0)
	overdraftRate := float64(0)
	cacheHitRate := float64(0)

	if total > 0 {
		errorRate = errorCount / total
		avgDays = simulatedDays / total
		overdraftRate = overdrafts / total
	}
	if cacheHits+cacheMisses > 0 {
		cacheHitRate = cacheHits / (cacheHits + cacheMisses)
	}

	return &domain.EngineMetrics{
		TotalSimulations: int64(total),
		ErrorRate:        errorRate,
		AvgHorizonDays:   avgDays,
		OverdraftRate:    overdraftRate,
		CacheHitRate:     cacheHitRate,
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

func getPlainCounterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
