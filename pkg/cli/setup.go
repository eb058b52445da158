package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/platinummonkey/novabill/pkg/billing"
)

// runWithService wraps a command body that needs the billing service.
func runWithService(a *app, fn func(ctx context.Context, svc *billing.Service, out io.Writer, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		svc, err := a.service(nil)
		if err != nil {
			return err
		}
		return fn(cmd.Context(), svc, cmd.OutOrStdout(), args)
	}
}

func newSetupCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Create or reuse metering and pricing objects",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "metric",
		Short: "Create or reuse the billable metric",
		Args:  cobra.NoArgs,
		RunE: runWithService(a, func(ctx context.Context, svc *billing.Service, out io.Writer, _ []string) error {
			result, err := svc.EnsureMetric(ctx)
			if err != nil {
				return err
			}
			return printJSON(out, result)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "pricing",
		Short: "Create or reuse the product, rate card and per-tier flat rates",
		Args:  cobra.NoArgs,
		RunE: runWithService(a, func(ctx context.Context, svc *billing.Service, out io.Writer, _ []string) error {
			result, err := svc.EnsurePricing(ctx)
			if err != nil {
				return err
			}
			return printJSON(out, result)
		}),
	})

	return cmd
}

func newCustomerCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Manage the demo customer",
	}

	var name, alias string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create, adopt by ingest alias, or reuse the demo customer",
		Args:  cobra.NoArgs,
		RunE: runWithService(a, func(ctx context.Context, svc *billing.Service, out io.Writer, _ []string) error {
			customer, err := svc.EnsureCustomer(ctx, name, alias)
			if err != nil {
				return err
			}
			return printJSON(out, customer)
		}),
	}
	create.Flags().StringVar(&name, "name", billing.DefaultCustomerName, "Customer display name")
	create.Flags().StringVar(&alias, "alias", "", "Ingest alias to look up or attach")
	cmd.AddCommand(create)

	return cmd
}

func newContractCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contract",
		Short: "Manage the demo contract",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create",
		Short: "Bind the rate card to the demo customer",
		Args:  cobra.NoArgs,
		RunE: runWithService(a, func(ctx context.Context, svc *billing.Service, out io.Writer, _ []string) error {
			contract, err := svc.EnsureContract(ctx)
			if err != nil {
				return err
			}
			return printJSON(out, contract)
		}),
	})

	return cmd
}
