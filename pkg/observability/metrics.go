package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Billing platform metrics
	PlatformCallsTotal   *prometheus.CounterVec
	PlatformCallDuration *prometheus.HistogramVec

	// Local state cache metrics
	StateCacheTotal *prometheus.CounterVec

	// Usage metrics
	UsageEventsTotal *prometheus.CounterVec

	otel *OTelMetrics
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "novabill_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "novabill_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		PlatformCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "novabill_platform_calls_total",
				Help: "Total number of calls to the billing platform",
			},
			[]string{"operation", "status"},
		),
		PlatformCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "novabill_platform_call_duration_seconds",
				Help:    "Billing platform call duration in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"operation"},
		),

		StateCacheTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "novabill_state_cache_total",
				Help: "Local state lookups by resource and result (hit or miss)",
			},
			[]string{"resource", "result"},
		),

		UsageEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "novabill_usage_events_total",
				Help: "Usage events by tier and outcome",
			},
			[]string{"tier", "outcome"},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.PlatformCallsTotal,
		m.PlatformCallDuration,
		m.StateCacheTotal,
		m.UsageEventsTotal,
	)

	return m
}

// ObservePlatformCall records one outbound call. A zero status means the
// request never got a response.
func (m *Metrics) ObservePlatformCall(operation string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	m.PlatformCallsTotal.WithLabelValues(operation, status).Inc()
	m.PlatformCallDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if m.otel != nil {
		m.otel.recordPlatformCall(operation, statusCode, duration)
	}
}

// ObserveCache records a local state lookup for resource.
func (m *Metrics) ObserveCache(resource string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.StateCacheTotal.WithLabelValues(resource, result).Inc()
}

// ObserveUsageEvent records the outcome of a usage send for tier.
func (m *Metrics) ObserveUsageEvent(tier, outcome string) {
	if m == nil {
		return
	}
	m.UsageEventsTotal.WithLabelValues(tier, outcome).Inc()
	if m.otel != nil {
		m.otel.recordUsageEvent(tier, outcome)
	}
}

// AttachOTel also reports platform calls and usage events to o.
func (m *Metrics) AttachOTel(o *OTelMetrics) {
	if m == nil {
		return
	}
	m.otel = o
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// routeTemplate labels requests by their mux route so the path label stays bounded.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// HTTPMetricsMiddleware instruments HTTP requests with Prometheus metrics
func HTTPMetricsMiddleware(metrics *Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			path := routeTemplate(r)
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rw.statusCode)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// RegisterMetricsEndpoint registers the /metrics endpoint
func RegisterMetricsEndpoint(router *mux.Router, gatherer prometheus.Gatherer) {
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
}
