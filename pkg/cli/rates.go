package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/platinummonkey/novabill/pkg/billing"
)

func newRatesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Manage rate card rates",
	}

	var file, effectiveAt string
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Add flat rates from a tier,price_cents CSV file",
		Long: `Add one flat rate per CSV row to the cached product and rate card, starting at
--effective-at. The cached price table is cleared so the next read refetches it.`,
		Example: `  novabill rates import --file rates.csv --effective-at 2025-10-01T00:00:00Z`,
		Args:    cobra.NoArgs,
		RunE: runWithService(a, func(ctx context.Context, svc *billing.Service, out io.Writer, _ []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("failed to open rates file: %w", err)
			}
			defer f.Close()

			rows, err := billing.ParseRatesCSV(f)
			if err != nil {
				return err
			}
			added, err := svc.ImportRates(ctx, rows, effectiveAt)
			if err != nil {
				return err
			}
			return printJSON(out, added)
		}),
	}
	importCmd.Flags().StringVar(&file, "file", "", "CSV file with tier,price_cents rows (required)")
	importCmd.Flags().StringVar(&effectiveAt, "effective-at", "", "RFC3339 start of the new rates (default: catalog rate_effective_at)")
	_ = importCmd.MarkFlagRequired("file")
	cmd.AddCommand(importCmd)

	return cmd
}
