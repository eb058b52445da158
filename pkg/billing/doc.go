// Package billing drives the Nova usage billing demo against the Metronome platform.
//
// # Overview
//
// The Service sets up a billable metric, a product and a rate card with one flat
// rate per catalog tier, creates a customer and a contract, sends usage events and
// reads back today's usage, prepaid balances and embeddable dashboards.
//
// # Idempotency cache
//
// Every id the platform returns is written to a state.Store. Ensure* methods return
// the cached id when present and call the platform only on a miss, so repeating a
// setup action is cheap. The cache is local only: deleting the state file and
// repeating an action creates a second object upstream.
//
// # Workflow
//
//	NoCustomer -> HasCustomer (EnsureCustomer) -> HasContract (EnsureContract) -> SendUsage ...
//
// EnsureContract requires a cached customer and rate card, and SendUsage requires a
// cached contract. Guard failures wrap ErrPrecondition and make no platform call.
//
// # Usage Example
//
//	svc := billing.NewService(client, store, config.DefaultCatalog(), billing.Options{Logger: logger})
//	if _, err := svc.EnsurePricing(ctx); err != nil {
//		return err
//	}
//	receipt, err := svc.SendUsage(ctx, billing.UsageRequest{Tier: "ultra"})
//
// Amounts from TodayUsage are count times the cached unit price. They are an
// estimate for display, not invoice figures.
package billing
