package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/platinummonkey/novabill/pkg/billing"
)

func newSendCommand(a *app) *cobra.Command {
	var (
		req   billing.UsageRequest
		count int
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send usage events for a tier",
		Example: `  novabill send --tier ultra
  novabill send --tier standard --count 5
  novabill send --tier high-res --tx ep3-demo-001 --region eu-west-1`,
		Args: cobra.NoArgs,
		RunE: runWithService(a, func(ctx context.Context, svc *billing.Service, out io.Writer, _ []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}
			if count > 1 && req.TransactionID != "" {
				return fmt.Errorf("--tx cannot be combined with --count")
			}

			for i := 0; i < count; i++ {
				receipt, err := svc.SendUsage(ctx, req)
				if err != nil {
					return err
				}
				if err := printJSON(out, receipt); err != nil {
					return err
				}
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&req.Tier, "tier", "", "Tier to bill (required)")
	cmd.Flags().StringVar(&req.TransactionID, "tx", "", "Transaction id (generated when empty)")
	cmd.Flags().StringVar(&req.Model, "model", "", "Model property (default nova-v2)")
	cmd.Flags().StringVar(&req.Region, "region", "", "Region property (default us-west-2)")
	cmd.Flags().IntVar(&count, "count", 1, "Number of events to send")
	_ = cmd.MarkFlagRequired("tier")

	return cmd
}

func newUsageCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show today's usage and estimated amounts per tier",
		Args:  cobra.NoArgs,
		RunE: runWithService(a, func(ctx context.Context, svc *billing.Service, out io.Writer, _ []string) error {
			usage, err := svc.TodayUsage(ctx)
			if err != nil {
				return err
			}
			return printJSON(out, usage)
		}),
	}
}
