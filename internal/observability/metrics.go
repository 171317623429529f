package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce                 sync.Once
	httpRequestsTotal            *prometheus.CounterVec
	httpRequestDurationSeconds   *prometheus.HistogramVec
	httpErrorsTotal              *prometheus.CounterVec
	appraisalTransitionsTotal    *prometheus.CounterVec
	appraisalUpdatesTotal        *prometheus.CounterVec
	appraisalBulkItemsTotal      *prometheus.CounterVec
	notificationsDispatchedTotal *prometheus.CounterVec
	evidenceUploadsTotal         *prometheus.CounterVec
	evidenceUploadDuration       prometheus.Histogram
	sseClientsActive             prometheus.Gauge
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpRequestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of error responses returned by API endpoints.",
		}, []string{"method", "route", "status"})

		appraisalTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "appraisal_transitions_total",
			Help: "Review decisions applied to appraisals, by action and review level.",
		}, []string{"action", "level"})

		appraisalUpdatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "appraisal_updates_total",
			Help: "Partial appraisal updates, by acting role and result.",
		}, []string{"role", "result"})

		appraisalBulkItemsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "appraisal_bulk_items_total",
			Help: "Per-employee results of bulk appraisal creation.",
		}, []string{"result"})

		notificationsDispatchedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_dispatched_total",
			Help: "Notifications dispatched, by type and result.",
		}, []string{"type", "result"})

		evidenceUploadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evidence_uploads_total",
			Help: "Evidence uploads, by result.",
		}, []string{"result"})

		evidenceUploadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "evidence_upload_duration_seconds",
			Help:    "Time spent validating and storing evidence uploads.",
			Buckets: prometheus.DefBuckets,
		})

		sseClientsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sse_clients_active",
			Help: "Number of connected notification stream clients.",
		})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpRequestDurationSeconds,
			httpErrorsTotal,
			appraisalTransitionsTotal,
			appraisalUpdatesTotal,
			appraisalBulkItemsTotal,
			notificationsDispatchedTotal,
			evidenceUploadsTotal,
			evidenceUploadDuration,
			sseClientsActive,
		)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpRequestDurationSeconds
}

// HTTPErrors exposes the counter for error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// AppraisalTransitions exposes the review decision counter.
func AppraisalTransitions() *prometheus.CounterVec {
	RegisterMetrics()
	return appraisalTransitionsTotal
}

// AppraisalUpdates exposes the partial update counter.
func AppraisalUpdates() *prometheus.CounterVec {
	RegisterMetrics()
	return appraisalUpdatesTotal
}

// AppraisalBulkItems exposes the bulk creation item counter.
func AppraisalBulkItems() *prometheus.CounterVec {
	RegisterMetrics()
	return appraisalBulkItemsTotal
}

// NotificationsDispatched exposes the notification dispatch counter.
func NotificationsDispatched() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsDispatchedTotal
}

// EvidenceUploads exposes the evidence upload counter.
func EvidenceUploads() *prometheus.CounterVec {
	RegisterMetrics()
	return evidenceUploadsTotal
}

// EvidenceUploadLatency exposes the evidence upload latency histogram.
func EvidenceUploadLatency() prometheus.Histogram {
	RegisterMetrics()
	return evidenceUploadDuration
}

// SSEClientsActive exposes the connected stream client gauge.
func SSEClientsActive() prometheus.Gauge {
	RegisterMetrics()
	return sseClientsActive
}
