package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports conversion counters to Prometheus. A nil *Metrics is a
// no-op, so the CLI can run without a registry.
type Metrics struct {
	documents *prometheus.CounterVec
	records   prometheus.Counter
	warnings  prometheus.Counter
	stages    *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lawgest",
			Name:      "documents_total",
			Help:      "Documents processed, by outcome status.",
		}, []string{"status"}),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lawgest",
			Name:      "records_total",
			Help:      "Records emitted across all documents.",
		}),
		warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lawgest",
			Name:      "warnings_total",
			Help:      "Conversion warnings, such as documents with no sections.",
		}),
		stages: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lawgest",
			Name:      "stage_duration_seconds",
			Help:      "Time spent per pipeline stage.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"stage"}),
	}
	reg.MustRegister(m.documents, m.records, m.warnings, m.stages)
	return m
}

func (m *Metrics) observeDocument(out Outcome) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(string(out.Status)).Inc()
	m.records.Add(float64(out.Records))
	m.warnings.Add(float64(len(out.Warnings)))
}

func (m *Metrics) observeStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stages.WithLabelValues(stage).Observe(d.Seconds())
}
