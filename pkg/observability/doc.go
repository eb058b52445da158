// Package observability provides structured logging, Prometheus metrics, OpenTelemetry tracing,
// health checks and graceful shutdown.
//
// # Structured Logging
//
// Loggers are logrus loggers in JSON or text format:
//
//	logger := observability.NewLogger(logrus.InfoLevel, observability.FormatJSON, os.Stdout)
//	logger.WithField("tier", "ultra").Info("Sent usage event")
//
// Request-scoped logging picks up the request ID and active span:
//
//	observability.FromContext(r.Context()).Warn("Price lookup failed")
//
// # Prometheus Metrics
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	router.Use(observability.HTTPMetricsMiddleware(metrics))
//	observability.RegisterMetricsEndpoint(router, registry)
//
// Metrics also implements metronome.Recorder, so it can be handed to the platform client
// to count outbound calls by operation and status.
//
// # Health Checks
//
//	checker := observability.NewHealthChecker(version)
//	checker.Register("state_dir", true, observability.StateDirCheck(cfg.State.Path))
//	checker.Register("platform_token", false, observability.TokenCheck(cfg.Platform.BearerToken))
//	observability.RegisterHealthRoutes(router, checker)
//
// # OpenTelemetry
//
//	providers, err := observability.InitOTel(ctx, otelCfg, logger)
//	defer providers.Shutdown(ctx)
//
// Platform calls and usage events can be mirrored to the OTLP meter:
//
//	om, err := observability.NewOTelMetrics(providers.MeterProvider.Meter("novabill"))
//	metrics.AttachOTel(om)
//
// # Related Packages
//
//   - pkg/config: Observability configuration
//   - pkg/httputil: Request ID and logging middleware
package observability
