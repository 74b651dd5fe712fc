package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ResolutionMetrics tracks pipeline outcomes for the /metrics endpoint.
type ResolutionMetrics struct {
	registry *prometheus.Registry

	resolutionsTotal   *prometheus.CounterVec
	resolutionDuration *prometheus.HistogramVec
	backendErrors      *prometheus.CounterVec
	seedObjects        prometheus.Counter
}

// NewResolutionMetrics builds a self-contained registry so tests can
// construct independent instances.
func NewResolutionMetrics() *ResolutionMetrics {
	registry := prometheus.NewRegistry()

	resolutionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "faqchat",
			Subsystem: "resolution",
			Name:      "answers_total",
			Help:      "Resolved answers by source.",
		},
		[]string{"source"},
	)
	resolutionDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "faqchat",
			Subsystem: "resolution",
			Name:      "duration_seconds",
			Help:      "End-to-end resolution duration by source.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"source"},
	)
	backendErrors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "faqchat",
			Subsystem: "backend",
			Name:      "errors_total",
			Help:      "Search backend call failures by operation.",
		},
		[]string{"operation"},
	)
	seedObjects := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "faqchat",
			Subsystem: "schema",
			Name:      "seed_objects_total",
			Help:      "FAQ objects inserted through the seeding flow.",
		},
	)

	registry.MustRegister(resolutionsTotal, resolutionDuration, backendErrors, seedObjects)

	return &ResolutionMetrics{
		registry:           registry,
		resolutionsTotal:   resolutionsTotal,
		resolutionDuration: resolutionDuration,
		backendErrors:      backendErrors,
		seedObjects:        seedObjects,
	}
}

// Handler exposes the registry in Prometheus text format.
func (m *ResolutionMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveResolution records one completed pipeline run.
func (m *ResolutionMetrics) ObserveResolution(source string, duration time.Duration) {
	m.resolutionsTotal.WithLabelValues(source).Inc()
	m.resolutionDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// BackendError counts a failed search backend call.
func (m *ResolutionMetrics) BackendError(operation string) {
	m.backendErrors.WithLabelValues(operation).Inc()
}

// SeedObjects counts objects written by the seeding flow.
func (m *ResolutionMetrics) SeedObjects(n int) {
	if n > 0 {
		m.seedObjects.Add(float64(n))
	}
}
