package billing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/platinummonkey/novabill/pkg/metronome"
)

const prepaidCommit = "PREPAID"

// Balance returns the prepaid commit position of the cached customer. Totals sum
// every prepaid commit's schedule items; remaining sums their balances.
func (s *Service) Balance(ctx context.Context) (Balance, error) {
	rec := s.store.Load()
	if rec.CustomerID == "" {
		return Balance{}, ErrNoCustomer
	}
	return s.balanceFor(ctx, rec.CustomerID)
}

func (s *Service) balanceFor(ctx context.Context, customerID string) (Balance, error) {
	commits, err := s.platform.CustomerBalances(ctx, customerID)
	if err != nil {
		return Balance{}, fmt.Errorf("fetch balance: %w", err)
	}

	total, remaining := decimal.Zero, decimal.Zero
	for _, c := range commits {
		if c.Type != prepaidCommit {
			continue
		}
		for _, item := range c.AccessSchedule.ScheduleItems {
			total = total.Add(item.Amount)
		}
		remaining = remaining.Add(c.Balance)
	}

	b := Balance{
		CustomerID:       customerID,
		TotalCommitCents: total.Round(0).IntPart(),
		RemainingCents:   remaining.Round(0).IntPart(),
	}
	b.TotalDisplay = FormatCents(b.TotalCommitCents)
	b.RemainingDisplay = FormatCents(b.RemainingCents)
	return b, nil
}

// DashboardURL returns an embeddable dashboard URL for the cached customer.
func (s *Service) DashboardURL(ctx context.Context, dashboard string) (string, error) {
	if !metronome.ValidDashboard(dashboard) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDashboard, dashboard)
	}
	rec := s.store.Load()
	if rec.CustomerID == "" {
		return "", ErrNoCustomer
	}

	url, err := s.platform.EmbeddableDashboardURL(ctx, rec.CustomerID, dashboard)
	if err != nil {
		return "", fmt.Errorf("fetch dashboard: %w", err)
	}
	return url, nil
}
