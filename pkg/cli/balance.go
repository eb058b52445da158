package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/platinummonkey/novabill/pkg/billing"
	"github.com/platinummonkey/novabill/pkg/metronome"
)

func newBalanceCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the demo customer's prepaid commit balance",
		Args:  cobra.NoArgs,
		RunE: runWithService(a, func(ctx context.Context, svc *billing.Service, out io.Writer, _ []string) error {
			balance, err := svc.Balance(ctx)
			if err != nil {
				return err
			}
			return printJSON(out, balance)
		}),
	}
}

func newDashboardCommand(a *app) *cobra.Command {
	var dashboard string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print an embeddable dashboard URL for the demo customer",
		Args:  cobra.NoArgs,
		RunE: runWithService(a, func(ctx context.Context, svc *billing.Service, out io.Writer, _ []string) error {
			url, err := svc.DashboardURL(ctx, dashboard)
			if err != nil {
				return err
			}
			_, err = io.WriteString(out, url+"\n")
			return err
		}),
	}
	cmd.Flags().StringVar(&dashboard, "type", metronome.DashboardInvoices, "Dashboard type: invoices, usage or commits_and_credits")

	return cmd
}
