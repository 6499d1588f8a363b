package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "country_api",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "country_api",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	refreshRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "country_api",
			Subsystem: "refresh",
			Name:      "runs_total",
			Help:      "Refresh executions by outcome.",
		},
		[]string{"outcome"},
	)

	refreshRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "country_api",
			Subsystem: "refresh",
			Name:      "rows_total",
			Help:      "Country rows written by refresh, split by created/updated.",
		},
		[]string{"kind"},
	)

	refreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "country_api",
			Subsystem: "refresh",
			Name:      "duration_seconds",
			Help:      "Duration of refresh executions.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)

	summaryFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "country_api",
			Subsystem: "summary",
			Name:      "failures_total",
			Help:      "Summary image generations that failed.",
		},
	)
)

// Refresh outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeUpstream = "upstream_unavailable"
	OutcomeError    = "error"
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		refreshRuns,
		refreshRows,
		refreshDuration,
		summaryFailures,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one handled request. route is the matched route pattern
// so that /countries/:name does not explode label cardinality.
func ObserveHTTP(method, route, status string, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, status).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRefresh records the outcome of one refresh execution.
func RecordRefresh(outcome string, created, updated int, duration time.Duration) {
	refreshRuns.WithLabelValues(outcome).Inc()
	refreshDuration.Observe(duration.Seconds())
	if created > 0 {
		refreshRows.WithLabelValues("created").Add(float64(created))
	}
	if updated > 0 {
		refreshRows.WithLabelValues("updated").Add(float64(updated))
	}
}

// RecordSummaryFailure counts a swallowed summary generation error.
func RecordSummaryFailure() {
	summaryFailures.Inc()
}
