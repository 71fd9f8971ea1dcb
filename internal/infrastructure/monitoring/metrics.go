package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/alchemorsel/recipe-explorer/internal/infrastructure/external/httpx"
	"github.com/alchemorsel/recipe-explorer/internal/ports/outbound"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "recipe_explorer"

// MetricsCollector handles Prometheus metrics collection. It owns its
// registry so several collectors can coexist in one process (tests).
type MetricsCollector struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Discovery metrics
	searchesTotal    *prometheus.CounterVec
	searchDuration   prometheus.Histogram
	searchCandidates prometheus.Histogram
	enrichmentsTotal *prometheus.CounterVec

	// Upstream metrics
	upstreamCallsTotal   *prometheus.CounterVec
	upstreamCallDuration *prometheus.HistogramVec
}

var (
	_ outbound.DiscoveryMetrics = (*MetricsCollector)(nil)
	_ httpx.CallObserver        = (*MetricsCollector)(nil)
)

// NewMetricsCollector creates a new metrics collector with Go runtime and
// process collectors already registered.
func NewMetricsCollector(logger *zap.Logger) *MetricsCollector {
	m := &MetricsCollector{
		logger:   logger.Named("metrics"),
		registry: prometheus.NewRegistry(),

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		searchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "searches_total",
				Help:      "Recipe searches by outcome",
			},
			[]string{"outcome"},
		),
		searchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_duration_seconds",
				Help:      "End-to-end recipe search latency including enrichment",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
		),
		searchCandidates: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_candidates",
				Help:      "Number of candidates returned by the primary search",
				Buckets:   prometheus.LinearBuckets(0, 2, 6),
			},
		),
		enrichmentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "enrichments_total",
				Help:      "Per-candidate enrichment fetches by source and outcome",
			},
			[]string{"source", "outcome"},
		),

		upstreamCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_calls_total",
				Help:      "Calls to third-party APIs by status code (0 = no response)",
			},
			[]string{"service", "endpoint", "status_code"},
		),
		upstreamCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_call_duration_seconds",
				Help:      "Third-party API call latency in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"service", "endpoint"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.searchesTotal,
		m.searchDuration,
		m.searchCandidates,
		m.enrichmentsTotal,
		m.upstreamCallsTotal,
		m.upstreamCallDuration,
	)

	return m
}

// Registry exposes the underlying registry
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog: zap.NewStdLog(m.logger),
	})
}

// RecordHTTPRequest records one served request. route should be the
// matched route pattern, not the raw path.
func (m *MetricsCollector) RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveSearch implements outbound.DiscoveryMetrics
func (m *MetricsCollector) ObserveSearch(outcome string, candidates int, elapsed time.Duration) {
	m.searchesTotal.WithLabelValues(outcome).Inc()
	m.searchCandidates.Observe(float64(candidates))
	m.searchDuration.Observe(elapsed.Seconds())
}

// ObserveEnrichment implements outbound.DiscoveryMetrics
func (m *MetricsCollector) ObserveEnrichment(source, outcome string) {
	m.enrichmentsTotal.WithLabelValues(source, outcome).Inc()
}

// ObserveUpstreamCall implements httpx.CallObserver
func (m *MetricsCollector) ObserveUpstreamCall(service, endpoint string, status int, elapsed time.Duration) {
	m.upstreamCallsTotal.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	m.upstreamCallDuration.WithLabelValues(service, endpoint).Observe(elapsed.Seconds())
}
