package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for document processing.
type Metrics struct {
	Processed        *prometheus.CounterVec
	ValidationErrors *prometheus.CounterVec
	Duration         prometheus.Histogram
}

// New creates and registers all processing metrics. Call once per process.
func New() *Metrics {
	return &Metrics{
		Processed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "valxml_documents_processed_total",
			Help: "Documents processed, partitioned by terminal outcome.",
		}, []string{"outcome"}),
		ValidationErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "valxml_validation_errors_total",
			Help: "Validation and persistence errors, partitioned by error code.",
		}, []string{"code"}),
		Duration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "valxml_processing_duration_seconds",
			Help:    "Wall time spent processing one document.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// RecordOutcome increments the processed counter for one terminal outcome.
func (m *Metrics) RecordOutcome(outcome string) {
	if m == nil {
		return
	}
	m.Processed.WithLabelValues(outcome).Inc()
}

// RecordError counts one emitted error code.
func (m *Metrics) RecordError(code string) {
	if m == nil {
		return
	}
	m.ValidationErrors.WithLabelValues(code).Inc()
}

// ObserveDuration records one document's processing time in seconds.
func (m *Metrics) ObserveDuration(seconds float64) {
	if m == nil {
		return
	}
	m.Duration.Observe(seconds)
}
