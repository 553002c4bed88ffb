package metrics

import (
	"regexp"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ScanRunsTotal counts expiry scan runs by scanner and outcome (completed, error).
	ScanRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expiry_scan_runs_total",
			Help: "Total number of expiry scan runs by scanner and outcome",
		},
		[]string{"scanner", "outcome"},
	)

	// NotificationsCreatedTotal counts notification records created by type.
	NotificationsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "Total number of notification records created",
		},
		[]string{"type"},
	)

	// NotificationFailuresTotal counts per-recipient notification failures.
	NotificationFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_failures_total",
			Help: "Total number of failed notification creations or email sends",
		},
	)

	// ScheduledJobs is the number of live jobs in the dynamic registry.
	ScheduledJobs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "scheduled_notification_jobs",
			Help: "Number of live jobs in the dynamic notification registry",
		},
	)
)

var numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestTotal,
		ScanRunsTotal, NotificationsCreatedTotal, NotificationFailuresTotal,
		ScheduledJobs,
	)
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /assets/123 -> /assets/{id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}
