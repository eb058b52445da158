package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/platinummonkey/novabill/pkg/api"
	"github.com/platinummonkey/novabill/pkg/config"
	"github.com/platinummonkey/novabill/pkg/observability"
	"github.com/platinummonkey/novabill/pkg/state"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the demo web server",
		Long:  `Serve the demo page and the /api endpoints. Configuration comes from the environment and .env.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), a)
		},
	}
}

func runServe(ctx context.Context, a *app) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := a.cfg
	logger := a.logger

	otel, err := observability.InitOTel(ctx, observability.OTelConfig{
		Enabled:        cfg.Observability.OTelEnabled,
		Endpoint:       cfg.Observability.OTelEndpoint,
		ServiceName:    cfg.Observability.OTelServiceName,
		ServiceVersion: cfg.Observability.OTelServiceVersion,
		Insecure:       cfg.Observability.OTelInsecure,
	}, logger)
	if err != nil {
		// Tracing is optional; keep serving without it.
		logger.WithError(err).Warn("Failed to initialize OpenTelemetry")
	}

	var (
		metrics  *observability.Metrics
		gatherer prometheus.Gatherer
	)
	if cfg.Observability.MetricsEnabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics = observability.NewMetrics(registry)
		gatherer = registry
	}
	if otel != nil && otel.MeterProvider != nil {
		om, err := observability.NewOTelMetrics(otel.MeterProvider.Meter("novabill"))
		if err != nil {
			logger.WithError(err).Warn("Failed to create OpenTelemetry instruments")
		} else {
			metrics.AttachOTel(om)
		}
	}

	service, err := a.service(metrics)
	if err != nil {
		return err
	}

	health := observability.NewHealthChecker(Version)
	health.Register("state_dir", true, observability.StateDirCheck(cfg.State.Path))
	health.Register("platform_token", false, observability.TokenCheck(cfg.Platform.BearerToken))

	server := api.NewServer(service, api.Options{
		Logger:   logger,
		Metrics:  metrics,
		Gatherer: gatherer,
		Health:   health,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      server.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := observability.NewShutdownManager(logger, httpServer, cfg.Server.ShutdownTimeout)
	shutdown.RegisterShutdownFunc(otel.Shutdown)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.State.Watch {
		startStateWatcher(runCtx, cfg, logger)
	}

	serveErr := make(chan error, 1)
	go func() {
		defer cancel()
		defer observability.RecoverPanic(logger, "http server")
		var err error
		defer func() { serveErr <- err }()

		logger.WithFields(logrus.Fields{
			"addr":       httpServer.Addr,
			"state_path": cfg.State.Path,
			"version":    Version,
		}).Info("Starting novabill server")
		err = httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	}()

	if err := shutdown.WaitForShutdown(runCtx); err != nil {
		return err
	}
	return <-serveErr
}

// startStateWatcher logs edits made to the state file by hand while serving.
func startStateWatcher(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) {
	go func() {
		defer observability.RecoverPanic(logger, "state watcher")
		err := state.Watch(ctx, cfg.State.Path, logger, logStateChange(logger))
		if err != nil {
			logger.WithError(err).Warn("State watcher stopped")
		}
	}()
}

// logStateChange warns once per removal; Watch itself only logs at debug.
func logStateChange(logger logrus.FieldLogger) func(state.Change) {
	return func(c state.Change) {
		if c.Kind == state.ChangeRemoved {
			logger.WithField("path", c.Path).Warn("State file removed; the next setup call recreates platform objects")
		}
	}
}
