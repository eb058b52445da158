package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/platinummonkey/novabill/pkg/billing"
)

func newSimulateCommand(a *app) *cobra.Command {
	var (
		serverURL string
		schedule  string
		tiers     []string
		count     int
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Post random-tier usage to a running server on a schedule",
		Long: `Post one usage event with a random tier to POST /api/generate on every tick of
a cron schedule. Stops after --count events, or on SIGINT/SIGTERM when --count is 0.`,
		Example: `  novabill simulate --schedule "@every 5s" --count 20
  novabill simulate --tiers standard,ultra --schedule "*/1 * * * *"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if serverURL == "" {
				serverURL = "http://" + a.cfg.Server.Addr()
			}
			if len(tiers) == 0 {
				tiers = a.cfg.Catalog.TierNames()
			}
			sim := newSimulator(serverURL, tiers, a.cfg.Platform.Timeout, a.logger)
			return runSimulate(cmd.Context(), sim, schedule, count, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "Base URL of a running novabill server (default: http://NOVA_HOST:NOVA_PORT)")
	cmd.Flags().StringVar(&schedule, "schedule", "@every 10s", "Cron schedule for sends")
	cmd.Flags().StringSliceVar(&tiers, "tiers", nil, "Tiers to pick from (default: all catalog tiers)")
	cmd.Flags().IntVar(&count, "count", 0, "Stop after this many events (0 runs until interrupted)")

	return cmd
}

// simulator posts usage for random tiers to a running server.
type simulator struct {
	serverURL string
	tiers     []string
	client    *http.Client
	logger    logrus.FieldLogger

	mu  sync.Mutex
	rng *rand.Rand
}

func newSimulator(serverURL string, tiers []string, timeout time.Duration, logger logrus.FieldLogger) *simulator {
	return &simulator{
		serverURL: strings.TrimRight(serverURL, "/"),
		tiers:     tiers,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *simulator) pickTier() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tiers[s.rng.Intn(len(s.tiers))]
}

// send posts one event and returns the server's receipt.
func (s *simulator) send(ctx context.Context, tier string) (billing.UsageReceipt, error) {
	body, err := json.Marshal(map[string]string{"tier": tier})
	if err != nil {
		return billing.UsageReceipt{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.serverURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return billing.UsageReceipt{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return billing.UsageReceipt{}, fmt.Errorf("failed to post usage: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return billing.UsageReceipt{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return billing.UsageReceipt{}, fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return billing.UsageReceipt{}, fmt.Errorf("server returned %d", resp.StatusCode)
	}

	var receipt billing.UsageReceipt
	if err := json.Unmarshal(raw, &receipt); err != nil {
		return billing.UsageReceipt{}, fmt.Errorf("failed to decode receipt: %w", err)
	}
	return receipt, nil
}

func runSimulate(ctx context.Context, sim *simulator, schedule string, count int, out io.Writer) error {
	if len(sim.tiers) == 0 {
		return fmt.Errorf("no tiers to simulate")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		mu   sync.Mutex
		sent int
		done = make(chan struct{})
	)

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		mu.Lock()
		if count > 0 && sent >= count {
			mu.Unlock()
			return
		}
		sent++
		n := sent
		mu.Unlock()

		tier := sim.pickTier()
		receipt, err := sim.send(ctx, tier)
		if err != nil {
			sim.logger.WithError(err).WithField("tier", tier).Warn("Simulated send failed")
		} else {
			fmt.Fprintf(out, "%s %s %s\n", receipt.Timestamp, receipt.Tier, receipt.TransactionID)
		}

		if count > 0 && n == count {
			close(done)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	c.Start()
	sim.logger.WithFields(logrus.Fields{
		"server":   sim.serverURL,
		"schedule": schedule,
		"tiers":    sim.tiers,
	}).Info("Simulation started")

	select {
	case <-ctx.Done():
	case <-done:
	}

	<-c.Stop().Done()
	mu.Lock()
	total := sent
	mu.Unlock()
	sim.logger.WithField("sent", total).Info("Simulation stopped")
	return nil
}
