package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/platinummonkey/novabill/pkg/state"
)

func newStateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or edit the local state file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the cached ids and price table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := state.ReadFile(a.cfg.State.Path)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rec)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset-prices",
		Short: "Drop the cached price table so it is refetched from the rate card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store().Update(func(rec *state.Record) {
				rec.PricesByTier = nil
			}); err != nil {
				return fmt.Errorf("failed to save state: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared cached prices in", a.cfg.State.Path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the state file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), a.cfg.State.Path)
			return nil
		},
	})

	return cmd
}
