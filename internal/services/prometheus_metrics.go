package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	importFilesTotal    *prometheus.CounterVec
	importRowsTotal     *prometheus.CounterVec
	importDuration      prometheus.Histogram
	bankDetectionsTotal *prometheus.CounterVec
	authEventsTotal     *prometheus.CounterVec
}

func NewPrometheusMetrics() MetricsRecorderInterface {
	return &PrometheusMetrics{
		importFilesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statement_import_files_total",
				Help: "Total number of statement files processed",
			},
			[]string{"bank_type", "outcome"},
		),
		importRowsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statement_import_rows_total",
				Help: "Total number of statement rows processed",
			},
			[]string{"bank_type", "outcome"},
		),
		importDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "statement_import_duration_milliseconds",
				Help:    "Statement import duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		bankDetectionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bank_format_detections_total",
				Help: "Total number of successful bank format detections",
			},
			[]string{"bank_type"},
		),
		authEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authentication_events_total",
				Help: "Total number of authentication events",
			},
			[]string{"event_type"},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	bankType := tags["bank_type"]
	outcome := tags["outcome"]

	switch name {
	case "import.file.processed":
		m.importFilesTotal.WithLabelValues(bankType, outcome).Inc()
	case "import.row.processed":
		m.importRowsTotal.WithLabelValues(bankType, outcome).Inc()
	case "import.bank.detected":
		m.bankDetectionsTotal.WithLabelValues(bankType).Inc()
	case "authentication_event":
		if eventType := tags["event_type"]; eventType != "" {
			m.authEventsTotal.WithLabelValues(eventType).Inc()
		}
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case "statement.import":
		m.importDuration.Observe(float64(duration.Milliseconds()))
	}
}
