package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// once guards registration; the default registry panics on duplicates.
	once sync.Once

	// HTTPRequestsTotal counts finished requests. route is the route
	// pattern, never the raw path, to keep label cardinality bounded.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency distributions.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPInflightRequests = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	// AccessLogLinesTotal counts access lines handed to each sink.
	AccessLogLinesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "access_log_lines_total",
			Help: "Access log lines emitted, by sink.",
		},
		[]string{"sink"},
	)

	AccessLogSinkErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "access_log_sink_errors_total",
			Help: "Access log lines a sink failed to deliver.",
		},
		[]string{"sink"},
	)

	// AccessLogFormatReloadsTotal counts runtime format changes; result is
	// "ok" or "invalid".
	AccessLogFormatReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "access_log_format_reloads_total",
			Help: "Access log format reload attempts.",
		},
		[]string{"result"},
	)

	AccessLogFormatRevision = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "access_log_format_revision",
			Help: "Revision of the active access log format.",
		},
	)
)

// Init registers every collector with the default registry. Safe to call
// more than once.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDurationSeconds,
			HTTPInflightRequests,
			AccessLogLinesTotal,
			AccessLogSinkErrorsTotal,
			AccessLogFormatReloadsTotal,
			AccessLogFormatRevision,
		)
	})
}
