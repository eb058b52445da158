package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/platinummonkey/novabill/pkg/billing"
	"github.com/platinummonkey/novabill/pkg/config"
	"github.com/platinummonkey/novabill/pkg/metronome"
	"github.com/platinummonkey/novabill/pkg/observability"
	"github.com/platinummonkey/novabill/pkg/state"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// app holds what every subcommand shares. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:     "novabill",
		Short:   "Nova usage billing demo for Metronome",
		Long:    `novabill sets up metering and pricing on Metronome, creates a demo customer and contract, and sends image generation usage.`,
		Version: Version,
		// Errors are printed once by main.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	root.AddCommand(
		newServeCommand(a),
		newSetupCommand(a),
		newCustomerCommand(a),
		newContractCommand(a),
		newSendCommand(a),
		newUsageCommand(a),
		newRatesCommand(a),
		newBalanceCommand(a),
		newDashboardCommand(a),
		newSimulateCommand(a),
		newStateCommand(a),
	)
	return root
}

func (a *app) init(logOutput io.Writer) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat, logOutput)
	return nil
}

func (a *app) store() *state.FileStore {
	return state.NewFileStore(a.cfg.State.Path, a.logger)
}

// client builds the platform client. It fails when no bearer token is configured.
func (a *app) client(metrics *observability.Metrics) (*metronome.Client, error) {
	if err := a.cfg.RequirePlatform(); err != nil {
		return nil, err
	}
	opts := []metronome.Option{
		metronome.WithBaseURL(a.cfg.Platform.BaseURL),
		metronome.WithHTTPClient(metronome.NewHTTPClient(a.cfg.Platform.Timeout)),
		metronome.WithLogger(a.logger),
	}
	if metrics != nil {
		opts = append(opts, metronome.WithRecorder(metrics))
	}
	return metronome.NewClient(a.cfg.Platform.BearerToken, opts...), nil
}

// service wires the billing service over the state file.
func (a *app) service(metrics *observability.Metrics) (*billing.Service, error) {
	client, err := a.client(metrics)
	if err != nil {
		return nil, err
	}
	return billing.NewService(client, a.store(), a.cfg.Catalog, billing.Options{
		Logger:       a.logger,
		Metrics:      metrics,
		PrepaidGuard: a.cfg.PrepaidGuard,
	}), nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

// Execute runs the root command with os.Args.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
