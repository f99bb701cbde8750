// Package metrics holds the Prometheus collectors exported on /metrics.
// HTTP traffic is tracked by the fiber middleware in this package; dose
// recording outcomes and the adherence digest report through the helpers
// below. Collectors register with the default registry at init.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	DoseResultRecorded  = "recorded"
	DoseResultDuplicate = "duplicate"
	DoseResultRejected  = "rejected"
)

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
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Client buckets held by the login rate limiter",
		},
	)

	DoseRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dose_records_total",
			Help: "Dose-taken submissions by outcome",
		},
		[]string{"result"},
	)

	PatientsWithRecentMissed = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "adherence_patients_with_recent_missed",
			Help: "Patients with at least one missed dose in the trailing week at the last digest",
		},
	)

	DigestLastRun = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "adherence_digest_last_run_timestamp",
			Help: "Unix time of the last completed adherence digest",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(DoseRecordsTotal)
	prometheus.MustRegister(PatientsWithRecentMissed)
	prometheus.MustRegister(DigestLastRun)
}

func ObserveDoseRecord(result string) {
	DoseRecordsTotal.WithLabelValues(result).Inc()
}
