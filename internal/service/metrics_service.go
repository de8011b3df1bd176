package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/hostelflow-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec
	toggles         *prometheus.CounterVec
	studentsAdded   prometheus.Counter
	insightTotal    *prometheus.CounterVec
	insightDuration prometheus.Observer

	requestCount         uint64
	requestDurationTotal uint64
	dbQueryCount         uint64
	dbQueryDurationTotal uint64
	toggleCount          uint64
	insightCount         uint64
	insightFallbackCount uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	dbQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of key-value store queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	toggles := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hostelflow_status_toggles_total",
		Help: "Attendance toggles grouped by resulting status",
	}, []string{"status"})

	studentsAdded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hostelflow_students_added_total",
		Help: "Students created through bulk upload",
	})

	insightTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hostelflow_insight_requests_total",
		Help: "Insight generations grouped by outcome",
	}, []string{"outcome"})

	insightDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "hostelflow_insight_duration_seconds",
		Help:    "Latency of insight generation",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, dbQueryDuration, toggles, studentsAdded, insightTotal, insightDuration, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		dbQueryDuration: dbQueryDuration,
		toggles:         toggles,
		studentsAdded:   studentsAdded,
		insightTotal:    insightTotal,
		insightDuration: insightDuration,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveDBQuery records key-value store query timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
	atomic.AddUint64(&m.dbQueryCount, 1)
	atomic.AddUint64(&m.dbQueryDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordToggle counts a successful attendance toggle.
func (m *MetricsService) RecordToggle(status models.StudentStatus) {
	if m == nil {
		return
	}
	m.toggles.WithLabelValues(string(status)).Inc()
	atomic.AddUint64(&m.toggleCount, 1)
}

// RecordStudentsAdded counts bulk-uploaded students.
func (m *MetricsService) RecordStudentsAdded(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.studentsAdded.Add(float64(n))
}

// RecordInsight tracks insight generation outcome and latency.
func (m *MetricsService) RecordInsight(available bool, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "generated"
	if !available {
		outcome = "fallback"
		atomic.AddUint64(&m.insightFallbackCount, 1)
	}
	m.insightTotal.WithLabelValues(outcome).Inc()
	m.insightDuration.Observe(duration.Seconds())
	atomic.AddUint64(&m.insightCount, 1)
}

// Snapshot returns aggregated metrics suitable for the metrics summary endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	dbCount := atomic.LoadUint64(&m.dbQueryCount)
	dbDuration := atomic.LoadUint64(&m.dbQueryDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	var avgDBMs float64
	if dbCount > 0 {
		avgDBMs = float64(dbDuration) / float64(dbCount) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		DBQueryCount:             dbCount,
		AverageDBQueryDurationMs: avgDBMs,
		TogglesTotal:             atomic.LoadUint64(&m.toggleCount),
		InsightsTotal:            atomic.LoadUint64(&m.insightCount),
		InsightFallbacks:         atomic.LoadUint64(&m.insightFallbackCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
