package billing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/novabill/pkg/metronome"
	"github.com/platinummonkey/novabill/pkg/state"
)

const (
	defaultModel  = "nova-v2"
	defaultRegion = "us-west-2"
	usageWindow   = "DAY"
)

// Prices returns unit prices in cents keyed by tier. The table is fetched from
// the rate card once and cached in the store; concurrent first loads share one
// platform call. Without a product and rate card the result is empty.
func (s *Service) Prices(ctx context.Context) (map[string]int64, error) {
	rec := s.store.Load()
	if len(rec.PricesByTier) > 0 {
		s.metrics.ObserveCache("prices", true)
		return copyPrices(rec.PricesByTier), nil
	}
	if rec.ProductID == "" || rec.RateCardID == "" {
		return map[string]int64{}, nil
	}
	s.metrics.ObserveCache("prices", false)

	// The fetch is shared, so one caller's cancellation must not fail the others.
	flightCtx := context.WithoutCancel(ctx)
	v, err, shared := s.priceLoads.Do("prices", func() (interface{}, error) {
		prices, err := s.platform.PricesByGroupValue(flightCtx, rec.RateCardID, rec.ProductID, s.catalog.RateEffectiveAt, s.catalog.Dimension)
		if err != nil {
			return nil, fmt.Errorf("fetch prices: %w", err)
		}
		if len(prices) == 0 {
			return prices, nil
		}
		if err := s.store.Update(func(r *state.Record) {
			r.PricesByTier = copyPrices(prices)
		}); err != nil {
			return nil, stateWriteError(err)
		}
		s.log(ctx).WithField("tiers", len(prices)).Info("Cached prices from rate card")
		return prices, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.log(ctx).Debug("Shared in-flight price fetch")
	}
	return copyPrices(v.(map[string]int64)), nil
}

// PriceLines returns one display line per catalog tier, in catalog order. Tiers
// without a known price show PricePlaceholder. A failed fetch is logged and
// renders as placeholders.
func (s *Service) PriceLines(ctx context.Context) []PriceLine {
	prices, err := s.Prices(ctx)
	if err != nil {
		s.log(ctx).WithError(err).Warn("Failed to load prices")
	}

	lines := make([]PriceLine, 0, len(s.catalog.Tiers))
	for _, tier := range s.catalog.Tiers {
		line := PriceLine{Tier: tier.Name, Display: PricePlaceholder}
		if cents, ok := prices[tier.Name]; ok {
			line.Display = FormatCents(cents)
		}
		lines = append(lines, line)
	}
	return lines
}

// TodayUsage returns the current UTC day's usage for every catalog tier. Counts
// always come live from the platform; amounts are count times the cached unit
// price, a flat estimate rather than invoice figures. Nothing is created, and the
// result is empty until a customer, contract and metric are cached.
func (s *Service) TodayUsage(ctx context.Context) (map[string]TierUsage, error) {
	rec := s.store.Load()
	if rec.CustomerID == "" || rec.ContractID == "" || rec.MetricID == "" {
		return map[string]TierUsage{}, nil
	}

	start := s.now().UTC().Truncate(24 * time.Hour)
	end := start.Add(24 * time.Hour)

	groups, err := s.platform.UsageGroups(ctx, rec.CustomerID, rec.MetricID, start, end, s.catalog.Dimension, usageWindow)
	if err != nil {
		return nil, fmt.Errorf("fetch usage: %w", err)
	}

	counts := make(map[string]decimal.Decimal)
	for _, g := range groups {
		if g.GroupValue == nil || !g.Value.Valid {
			continue
		}
		counts[*g.GroupValue] = counts[*g.GroupValue].Add(g.Value.Decimal)
	}

	prices, err := s.Prices(ctx)
	if err != nil {
		s.log(ctx).WithError(err).Warn("Failed to load prices, amounts default to zero")
		prices = map[string]int64{}
	}

	usage := make(map[string]TierUsage, len(s.catalog.Tiers))
	for _, tier := range s.catalog.Tiers {
		count := counts[tier.Name].IntPart()
		amount := count * prices[tier.Name]
		usage[tier.Name] = TierUsage{
			Count:         count,
			Amount:        amount,
			AmountDisplay: FormatCents(amount),
		}
	}
	return usage, nil
}

// SendUsage ingests one usage event for the cached customer. A contract must be
// cached and the tier must be in the catalog. Without a transaction id one is
// derived from a per customer, day and tier counter kept in the store.
func (s *Service) SendUsage(ctx context.Context, req UsageRequest) (UsageReceipt, error) {
	rec := s.store.Load()
	if rec.CustomerID == "" {
		return UsageReceipt{}, ErrNoCustomer
	}
	if rec.ContractID == "" {
		return UsageReceipt{}, ErrNoContract
	}

	tier := strings.ToLower(strings.TrimSpace(req.Tier))
	if !s.catalog.HasTier(tier) {
		allowed := s.catalog.TierNames()
		sort.Strings(allowed)
		s.metrics.ObserveUsageEvent("invalid", "declined")
		return UsageReceipt{}, &TierError{Tier: tier, Allowed: allowed}
	}

	if s.prepaidGuard {
		if err := s.checkPrepaid(ctx, rec.CustomerID, tier); err != nil {
			if errors.Is(err, ErrInsufficientCredit) {
				s.metrics.ObserveUsageEvent(tier, "declined")
			}
			return UsageReceipt{}, err
		}
	}

	now := s.now().UTC()
	txID := strings.TrimSpace(req.TransactionID)
	if txID == "" {
		var err error
		txID, err = s.nextTransactionID(rec.CustomerID, tier, now)
		if err != nil {
			return UsageReceipt{}, err
		}
	}

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = defaultModel
	}
	region := strings.TrimSpace(req.Region)
	if region == "" {
		region = defaultRegion
	}

	ts := metronome.FormatTimestamp(now)
	event := metronome.Event{
		CustomerID:    rec.CustomerID,
		EventType:     s.catalog.EventType,
		Timestamp:     ts,
		TransactionID: txID,
		Properties: map[string]string{
			s.catalog.Dimension:     tier,
			s.catalog.CountProperty: "1",
			"model":                 model,
			"region":                region,
		},
	}
	if err := s.platform.Ingest(ctx, event); err != nil {
		s.metrics.ObserveUsageEvent(tier, "failed")
		return UsageReceipt{}, fmt.Errorf("send usage: %w", err)
	}
	s.metrics.ObserveUsageEvent(tier, "sent")

	s.log(ctx).WithFields(logrus.Fields{
		"event_type":     s.catalog.EventType,
		"tier":           tier,
		"transaction_id": txID,
		"customer_id":    rec.CustomerID,
	}).Info("Sent usage event")

	return UsageReceipt{
		Success:       true,
		EventType:     s.catalog.EventType,
		Tier:          tier,
		CustomerID:    rec.CustomerID,
		TransactionID: txID,
		Timestamp:     ts,
	}, nil
}

// nextTransactionID formats nova-<tier>-<YYYYMMDD>-<customer suffix>-<seq>.
func (s *Service) nextTransactionID(customerID, tier string, now time.Time) (string, error) {
	day := now.Format("20060102")
	var seq int
	if err := s.store.Update(func(rec *state.Record) {
		seq = rec.NextSeq(customerID, day, tier)
	}); err != nil {
		return "", stateWriteError(err)
	}
	return fmt.Sprintf("nova-%s-%s-%s-%04d", tier, day, shortCustomer(customerID), seq), nil
}

// shortCustomer keeps the last five alphanumerics of the id's last eight characters.
func shortCustomer(id string) string {
	r := []rune(id)
	if len(r) > 8 {
		r = r[len(r)-8:]
	}
	kept := make([]rune, 0, len(r))
	for _, c := range r {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			kept = append(kept, c)
		}
	}
	if len(kept) > 5 {
		kept = kept[len(kept)-5:]
	}
	return string(kept)
}

func (s *Service) checkPrepaid(ctx context.Context, customerID, tier string) error {
	balance, err := s.balanceFor(ctx, customerID)
	if err != nil {
		return err
	}
	prices, err := s.Prices(ctx)
	if err != nil {
		return err
	}
	price := prices[tier]
	if price > balance.RemainingCents {
		s.log(ctx).WithFields(logrus.Fields{
			"tier":            tier,
			"price_cents":     price,
			"remaining_cents": balance.RemainingCents,
		}).Warn("Declined usage over prepaid balance")
		return ErrInsufficientCredit
	}
	return nil
}

func copyPrices(in map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
