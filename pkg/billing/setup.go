package billing

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/novabill/pkg/metronome"
	"github.com/platinummonkey/novabill/pkg/state"
)

// EnsureMetric returns the cached billable metric id, creating the metric on a miss.
//
// Only the local cache is consulted: after the state file is deleted a second
// metric with the same name is created upstream.
func (s *Service) EnsureMetric(ctx context.Context) (MetricResult, error) {
	if id, ok := s.store.Get(state.KeyMetricID); ok {
		s.metrics.ObserveCache("metric", true)
		s.log(ctx).WithField("metric_id", id).Debug("Using cached billable metric")
		return MetricResult{MetricID: id}, nil
	}
	s.metrics.ObserveCache("metric", false)

	exists := true
	id, err := s.platform.CreateBillableMetric(ctx, metronome.BillableMetricInput{
		Name:            s.catalog.MetricName,
		AggregationType: "SUM",
		AggregationKey:  s.catalog.CountProperty,
		EventTypeFilter: metronome.EventTypeFilter{InValues: []string{s.catalog.EventType}},
		GroupKeys:       [][]string{{s.catalog.Dimension}},
		PropertyFilters: []metronome.PropertyFilter{
			{Name: s.catalog.Dimension, Exists: &exists},
			{Name: s.catalog.CountProperty, Exists: &exists},
		},
	})
	if err != nil {
		return MetricResult{}, fmt.Errorf("create metric: %w", err)
	}

	if err := s.setIDs(map[string]string{state.KeyMetricID: id}); err != nil {
		return MetricResult{}, err
	}

	s.log(ctx).WithFields(logrus.Fields{
		"metric_id": id,
		"name":      s.catalog.MetricName,
	}).Info("Created billable metric")
	return MetricResult{MetricID: id, Created: true}, nil
}

// EnsurePricing makes sure the metric, product and rate card exist. Cached ids are
// reused without platform calls. Missing objects are created and persisted one at a
// time, and when anything was created the catalog's flat rates are added in order.
func (s *Service) EnsurePricing(ctx context.Context) (PricingResult, error) {
	metric, err := s.EnsureMetric(ctx)
	if err != nil {
		return PricingResult{}, err
	}

	rec := s.store.Load()
	result := PricingResult{
		MetricID:   metric.MetricID,
		ProductID:  rec.ProductID,
		RateCardID: rec.RateCardID,
		Rates:      []CreatedRate{},
	}

	if result.ProductID != "" && result.RateCardID != "" {
		s.metrics.ObserveCache("pricing", true)
		s.log(ctx).WithFields(logrus.Fields{
			"product_id":   result.ProductID,
			"rate_card_id": result.RateCardID,
		}).Info("Reusing pricing objects from state")
		return result, nil
	}
	s.metrics.ObserveCache("pricing", false)

	if result.ProductID == "" {
		groupKey := []string{s.catalog.Dimension}
		id, err := s.platform.CreateProduct(ctx, metronome.ProductInput{
			Name:                 s.catalog.ProductName,
			Type:                 "USAGE",
			BillableMetricID:     metric.MetricID,
			PricingGroupKey:      groupKey,
			PresentationGroupKey: groupKey,
		})
		if err != nil {
			return PricingResult{}, fmt.Errorf("create product: %w", err)
		}
		if err := s.setIDs(map[string]string{state.KeyProductID: id}); err != nil {
			return PricingResult{}, err
		}
		result.ProductID = id
		result.CreatedProduct = true
		s.log(ctx).WithField("product_id", id).Info("Created product")
	}

	if result.RateCardID == "" {
		id, err := s.platform.CreateRateCard(ctx, metronome.RateCardInput{Name: s.catalog.RateCardName})
		if err != nil {
			return PricingResult{}, fmt.Errorf("create rate card: %w", err)
		}
		if err := s.setIDs(map[string]string{state.KeyRateCardID: id}); err != nil {
			return PricingResult{}, err
		}
		result.RateCardID = id
		result.CreatedRateCard = true
		s.log(ctx).WithField("rate_card_id", id).Info("Created rate card")
	}

	for _, tier := range s.catalog.Tiers {
		_, err := s.platform.AddFlatRate(ctx, metronome.FlatRateInput{
			RateCardID:         result.RateCardID,
			ProductID:          result.ProductID,
			Price:              tier.PriceCents,
			StartingAt:         s.catalog.RateEffectiveAt,
			PricingGroupValues: map[string]string{s.catalog.Dimension: tier.Name},
		})
		if err != nil {
			return PricingResult{}, fmt.Errorf("add rate for %s: %w", tier.Name, err)
		}
		result.Rates = append(result.Rates, CreatedRate{Tier: tier.Name, PriceCents: tier.PriceCents})
	}

	s.log(ctx).WithField("rates", len(result.Rates)).Info("Pricing ready")
	return result, nil
}
