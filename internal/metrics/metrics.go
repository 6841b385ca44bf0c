package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the API.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	StorageOperationsTotal   *prometheus.CounterVec
	StorageOperationDuration *prometheus.HistogramVec

	// operations that left the record store and blob store out of sync
	ReconcileTotal *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rental_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rental_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		StorageOperationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rental_storage_operations_total",
			Help: "Total number of blob store operations",
		}, []string{"operation", "result"}),

		StorageOperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rental_storage_operation_duration_seconds",
			Help:    "Blob store operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),

		ReconcileTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rental_reconcile_required_total",
			Help: "Operations that left an orphaned object or a dangling reference",
		}, []string{"operation"}),
	}
}

func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackStorage returns a func to be deferred with the operation's error.
func (m *Metrics) TrackStorage(operation string) func(err error) {
	start := time.Now()
	return func(err error) {
		if m == nil {
			return
		}
		result := "ok"
		if err != nil {
			result = "error"
		}
		m.StorageOperationsTotal.WithLabelValues(operation, result).Inc()
		m.StorageOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) RecordReconcile(operation string) {
	if m == nil {
		return
	}
	m.ReconcileTotal.WithLabelValues(operation).Inc()
}
