package metronome

import (
	"context"
	"fmt"
	"net/http"
)

// CreateBillableMetric creates a billable metric and returns its id.
func (c *Client) CreateBillableMetric(ctx context.Context, in BillableMetricInput) (string, error) {
	if in.AggregationType == "" {
		in.AggregationType = "SUM"
	}

	var resp envelope[idResponse]
	if err := c.doJSON(ctx, "billable_metrics.create", http.MethodPost, "/v1/billable-metrics/create", nil, in, &resp); err != nil {
		return "", err
	}
	if resp.Data.ID == "" {
		return "", fmt.Errorf("billable metric create returned no id")
	}
	return resp.Data.ID, nil
}

// CreateProduct creates a product and returns its id.
func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (string, error) {
	if in.Type == "" {
		in.Type = "USAGE"
	}

	var resp envelope[idResponse]
	if err := c.doJSON(ctx, "products.create", http.MethodPost, "/v1/contract-pricing/products/create", nil, in, &resp); err != nil {
		return "", err
	}
	if resp.Data.ID == "" {
		return "", fmt.Errorf("product create returned no id")
	}
	return resp.Data.ID, nil
}

// CreateRateCard creates a rate card and returns its id.
func (c *Client) CreateRateCard(ctx context.Context, in RateCardInput) (string, error) {
	if in.Description == "" {
		in.Description = "Pricing for " + in.Name
	}

	var resp envelope[idResponse]
	if err := c.doJSON(ctx, "rate_cards.create", http.MethodPost, "/v1/contract-pricing/rate-cards/create", nil, in, &resp); err != nil {
		return "", err
	}
	if resp.Data.ID == "" {
		return "", fmt.Errorf("rate card create returned no id")
	}
	return resp.Data.ID, nil
}

// AddFlatRate adds an entitled FLAT rate to a rate card.
func (c *Client) AddFlatRate(ctx context.Context, in FlatRateInput) (Rate, error) {
	in.Entitled = true
	in.RateType = "FLAT"

	var resp envelope[Rate]
	if err := c.doJSON(ctx, "rate_cards.add_rate", http.MethodPost, "/v1/contract-pricing/rate-cards/addRate", nil, in, &resp); err != nil {
		return Rate{}, err
	}
	return resp.Data, nil
}

// ListRates returns every rate on the card for the product in effect at the given timestamp.
func (c *Client) ListRates(ctx context.Context, rateCardID, productID, at string) ([]RateEntry, error) {
	payload := map[string]any{
		"rate_card_id": rateCardID,
		"at":           at,
		"selectors":    []map[string]string{{"product_id": productID}},
	}

	var entries []RateEntry
	var next *string
	for page := 0; page < maxPages; page++ {
		var resp envelope[[]RateEntry]
		if err := c.doJSON(ctx, "rate_cards.get_rates", http.MethodPost, "/v1/contract-pricing/rate-cards/getRates", pageQuery(next), payload, &resp); err != nil {
			return nil, err
		}
		entries = append(entries, resp.Data...)
		if resp.NextPage == nil || *resp.NextPage == "" {
			break
		}
		next = resp.NextPage
	}
	return entries, nil
}

// PricesByGroupValue maps the value of groupKey to the price in cents for every
// entitled rate on the card.
func (c *Client) PricesByGroupValue(ctx context.Context, rateCardID, productID, at, groupKey string) (map[string]int64, error) {
	entries, err := c.ListRates(ctx, rateCardID, productID, at)
	if err != nil {
		return nil, err
	}

	prices := make(map[string]int64)
	for _, entry := range entries {
		if !entry.Entitled {
			continue
		}
		value, ok := entry.PricingGroupValues[groupKey]
		if !ok {
			continue
		}
		prices[value] = entry.Rate.Price.Round(0).IntPart()
	}
	return prices, nil
}
