package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ReportsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reports_created_total",
			Help: "Total number of report creation attempts.",
		},
		[]string{"result"},
	)

	VotesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "votes_total",
			Help: "Total number of vote operations.",
		},
		[]string{"action", "result"},
	)

	NotificationsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "Total number of notifications written.",
		},
		[]string{"kind"},
	)

	PhotoAssessmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_assessments_total",
			Help: "Total number of background photo assessments.",
		},
		[]string{"result"},
	)

	LiveSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "live_subscribers",
			Help: "Currently connected live-update subscribers.",
		},
	)
)

// MustRegister attaches every collector to the default registry with a
// constant service label. Call once from main; the vectors themselves work
// unregistered, which keeps tests free of registry state.
func MustRegister(serviceName string) {
	reg := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": serviceName},
		prometheus.DefaultRegisterer,
	)
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		ReportsCreatedTotal,
		VotesTotal,
		NotificationsCreatedTotal,
		PhotoAssessmentsTotal,
		LiveSubscribers,
	)
}
