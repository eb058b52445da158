package billing

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/novabill/pkg/metronome"
	"github.com/platinummonkey/novabill/pkg/state"
)

// ParseRatesCSV reads tier,price_cents rows. A header row is optional.
func ParseRatesCSV(r io.Reader) ([]RateRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var rows []RateRow
	for line := 1; ; line++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read rates: %w", err)
		}

		tier := strings.ToLower(strings.TrimSpace(fields[0]))
		price := strings.TrimSpace(fields[1])
		if line == 1 && tier == "tier" {
			continue
		}
		if tier == "" {
			return nil, fmt.Errorf("line %d: empty tier", line)
		}
		cents, err := strconv.ParseInt(price, 10, 64)
		if err != nil || cents < 0 {
			return nil, fmt.Errorf("line %d: invalid price_cents %q", line, price)
		}
		rows = append(rows, RateRow{Tier: tier, PriceCents: cents})
	}

	if len(rows) == 0 {
		return nil, errors.New("no rates found")
	}
	return rows, nil
}

// ImportRates adds flat rates to the cached product and rate card starting at
// effectiveAt (the catalog's rate timestamp when empty), then clears the cached
// price table so the next read refetches it.
func (s *Service) ImportRates(ctx context.Context, rows []RateRow, effectiveAt string) ([]CreatedRate, error) {
	rec := s.store.Load()
	if rec.ProductID == "" || rec.RateCardID == "" {
		return nil, ErrNoPricing
	}
	if effectiveAt == "" {
		effectiveAt = s.catalog.RateEffectiveAt
	}

	added := make([]CreatedRate, 0, len(rows))
	for _, row := range rows {
		if !s.catalog.HasTier(row.Tier) {
			return added, &TierError{Tier: row.Tier, Allowed: s.catalog.TierNames()}
		}
		_, err := s.platform.AddFlatRate(ctx, metronome.FlatRateInput{
			RateCardID:         rec.RateCardID,
			ProductID:          rec.ProductID,
			Price:              row.PriceCents,
			StartingAt:         effectiveAt,
			PricingGroupValues: map[string]string{s.catalog.Dimension: row.Tier},
		})
		if err != nil {
			return added, fmt.Errorf("add rate for %s: %w", row.Tier, err)
		}
		added = append(added, CreatedRate{Tier: row.Tier, PriceCents: row.PriceCents})
	}

	if err := s.ResetPrices(); err != nil {
		return added, err
	}

	s.log(ctx).WithFields(logrus.Fields{
		"rates":        len(added),
		"effective_at": effectiveAt,
	}).Info("Imported rates")
	return added, nil
}

// ResetPrices drops the cached price table.
func (s *Service) ResetPrices() error {
	if err := s.store.Update(func(rec *state.Record) {
		rec.PricesByTier = nil
	}); err != nil {
		return stateWriteError(err)
	}
	return nil
}
