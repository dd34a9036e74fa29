// Package metrics exports Prometheus metrics for the HTTP server and the
// identification pipeline. Everything is registered with the default
// registry at package initialization and served on /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	LookupTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookup_total",
			Help: "Medicine lookups by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	SummaryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "summary_generation_duration_seconds",
			Help:    "Latency of one summary generation call",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	RegenerateAttempts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "summary_regenerate_attempts_total",
			Help: "Individual generation attempts made while regenerating",
		},
	)

	OCRDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ocr_duration_seconds",
			Help:    "Latency of text recognition per uploaded image",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(LookupTotals)
	prometheus.MustRegister(SummaryDuration)
	prometheus.MustRegister(RegenerateAttempts)
	prometheus.MustRegister(OCRDuration)
}

// StartSummaryTimer times one summary generation call.
func StartSummaryTimer() *prometheus.Timer {
	return prometheus.NewTimer(SummaryDuration)
}

// StartOCRTimer times one OCR pass.
func StartOCRTimer() *prometheus.Timer {
	return prometheus.NewTimer(OCRDuration)
}
