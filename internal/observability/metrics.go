package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var httpDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// Metrics holds all Prometheus metric instruments for the service.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Distribution metrics
	DistributionRunsTotal *prometheus.CounterVec
	BatchesCreatedTotal   prometheus.Counter
	ItemsAssignedTotal    prometheus.Counter
	StatusUpdatesTotal    *prometheus.CounterVec
}

// InitMetrics creates and registers all Prometheus metric instruments.
func InitMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskd_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "taskd_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: httpDurationBuckets,
		}, []string{"method", "path_pattern"}),
		DistributionRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskd_distribution_runs_total",
			Help: "Distribution runs by outcome (ok, rejected, failed).",
		}, []string{"outcome"}),
		BatchesCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskd_batches_created_total",
			Help: "Total batches created across all distribution runs.",
		}),
		ItemsAssignedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskd_items_assigned_total",
			Help: "Total work items assigned across all distribution runs.",
		}),
		StatusUpdatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskd_status_updates_total",
			Help: "Batch status updates by requested status.",
		}, []string{"status"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DistributionRunsTotal,
		m.BatchesCreatedTotal,
		m.ItemsAssignedTotal,
		m.StatusUpdatesTotal,
	)
	return m
}

// MetricsHandler returns the Prometheus scrape handler for the given
// gatherer.
func MetricsHandler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
