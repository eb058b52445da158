package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/platinummonkey/novabill/pkg/billing"
	"github.com/platinummonkey/novabill/pkg/config"
	"github.com/platinummonkey/novabill/pkg/httputil"
	"github.com/platinummonkey/novabill/pkg/observability"
)

// maxBodyBytes caps request bodies; every API body is a handful of fields.
const maxBodyBytes = 1 << 20

// BillingService is the billing behavior the API exposes.
// *billing.Service satisfies it.
type BillingService interface {
	Catalog() config.Catalog
	Status() billing.Status
	EnsureMetric(ctx context.Context) (billing.MetricResult, error)
	EnsurePricing(ctx context.Context) (billing.PricingResult, error)
	EnsureCustomer(ctx context.Context, name, alias string) (billing.Customer, error)
	EnsureContract(ctx context.Context) (billing.Contract, error)
	SendUsage(ctx context.Context, req billing.UsageRequest) (billing.UsageReceipt, error)
	TodayUsage(ctx context.Context) (map[string]billing.TierUsage, error)
	PriceLines(ctx context.Context) []billing.PriceLine
	Balance(ctx context.Context) (billing.Balance, error)
	DashboardURL(ctx context.Context, dashboard string) (string, error)
}

// Options configures optional Server behavior.
type Options struct {
	Logger logrus.FieldLogger
	// Metrics enables request metrics; Gatherer serves them on /metrics.
	Metrics  *observability.Metrics
	Gatherer prometheus.Gatherer
	Health   *observability.HealthChecker
}

// Server represents our API server
type Server struct {
	service BillingService
	router  *mux.Router
	logger  logrus.FieldLogger
	metrics *observability.Metrics
}

// NewServer creates a new API server
func NewServer(service BillingService, opts Options) *Server {
	s := &Server{
		service: service,
		router:  mux.NewRouter(),
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
	if s.logger == nil {
		s.logger = logrus.StandardLogger()
	}

	s.router.Use(httputil.Chain(
		httputil.RequestIDMiddleware(s.logger),
		httputil.LoggingMiddleware,
		httputil.RecoveryMiddleware,
		httputil.MaxBytesMiddleware(maxBodyBytes),
	))
	if s.metrics != nil {
		s.router.Use(observability.HTTPMetricsMiddleware(s.metrics))
	}

	s.setupRoutes()

	if opts.Health != nil {
		observability.RegisterHealthRoutes(s.router, opts.Health)
	}
	if opts.Gatherer != nil {
		observability.RegisterMetricsEndpoint(s.router, opts.Gatherer)
	}
	return s
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteNotFoundError(w, "Not found")
	})

	s.router.HandleFunc("/", s.index).Methods("GET")

	// Setup
	s.router.HandleFunc("/api/metrics", s.setupMetric).Methods("POST")
	s.router.HandleFunc("/api/pricing", s.setupPricing).Methods("POST")
	s.router.HandleFunc("/api/customers", s.createCustomer).Methods("POST")
	s.router.HandleFunc("/api/contract", s.createContract).Methods("POST")

	// Usage
	s.router.HandleFunc("/api/generate", s.generateUsage).Methods("POST")
	s.router.HandleFunc("/api/usage", s.getUsage).Methods("GET")

	// Read-only views
	s.router.HandleFunc("/api/status", s.getStatus).Methods("GET")
	s.router.HandleFunc("/api/balance", s.getBalance).Methods("GET")
	s.router.HandleFunc("/api/dashboard", s.getDashboard).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the server wrapped with OpenTelemetry request spans.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, "novabill")
}

// Router exposes the router so callers can mount extra routes.
func (s *Server) Router() *mux.Router {
	return s.router
}
