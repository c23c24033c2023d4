package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService owns the Prometheus registry for HTTP, cache and scheduling metrics.
// A nil *MetricsService is valid and records nothing.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	cacheLatency    prometheus.Histogram
	gamesPlaced     *prometheus.CounterVec
	gamesFailed     *prometheus.CounterVec
	fallbacks       *prometheus.CounterVec
	buildDuration   prometheus.Histogram
}

// NewMetricsService registers collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	m := &MetricsService{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Cache lookups by result",
		}, []string{"result"}),
		cacheLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cache_latency_seconds",
			Help:    "Latency for cache operations",
			Buckets: prometheus.DefBuckets,
		}),
		gamesPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_games_placed_total",
			Help: "Games placed onto a field timeslot",
		}, []string{"mode"}),
		gamesFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_games_failed_total",
			Help: "Pairings that could not be placed",
		}, []string{"mode"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_pattern_fallbacks_total",
			Help: "Pattern placements handed to the greedy allocator, by reason",
		}, []string{"reason"}),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scheduler_autobuild_duration_seconds",
			Help:    "Duration of Auto-Build executions",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(m.requestDuration, m.requestTotal, m.cacheLookups, m.cacheLatency,
		m.gamesPlaced, m.gamesFailed, m.fallbacks, m.buildDuration, goroutines)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
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

// Registry returns the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records one served request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache lookup.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// RecordPlacements counts placed and failed games for a scheduling mode
// ("auto" or "pattern").
func (m *MetricsService) RecordPlacements(mode string, placed, failed int) {
	if m == nil {
		return
	}
	m.gamesPlaced.WithLabelValues(mode).Add(float64(placed))
	m.gamesFailed.WithLabelValues(mode).Add(float64(failed))
}

// RecordFallbacks counts greedy fallbacks by reason.
func (m *MetricsService) RecordFallbacks(byReason map[string]int) {
	if m == nil {
		return
	}
	for reason, n := range byReason {
		m.fallbacks.WithLabelValues(reason).Add(float64(n))
	}
}

// ObserveAutoBuild records the duration of one Auto-Build execution.
func (m *MetricsService) ObserveAutoBuild(duration time.Duration) {
	if m == nil {
		return
	}
	m.buildDuration.Observe(duration.Seconds())
}
