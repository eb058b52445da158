package metronome

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// CreateCustomer creates a customer, attaching alias as an ingest alias when non-empty.
func (c *Client) CreateCustomer(ctx context.Context, name, alias string) (Customer, error) {
	payload := map[string]any{"name": name}
	if alias != "" {
		payload["ingest_aliases"] = []string{alias}
	}

	var resp envelope[Customer]
	if err := c.doJSON(ctx, "customers.create", http.MethodPost, "/v1/customers", nil, payload, &resp); err != nil {
		return Customer{}, err
	}
	if resp.Data.ID == "" {
		return Customer{}, fmt.Errorf("customer create returned no id")
	}
	if resp.Data.Name == "" {
		resp.Data.Name = name
	}
	return resp.Data, nil
}

// GetCustomerByIngestAlias returns the first customer with the alias.
// found is false when the platform knows no such customer.
func (c *Client) GetCustomerByIngestAlias(ctx context.Context, alias string) (Customer, bool, error) {
	query := url.Values{"ingest_alias": []string{alias}}

	var resp envelope[[]Customer]
	if err := c.doJSON(ctx, "customers.list", http.MethodGet, "/v1/customers", query, nil, &resp); err != nil {
		return Customer{}, false, err
	}
	for _, customer := range resp.Data {
		if customer.ID != "" {
			return customer, true, nil
		}
	}
	return Customer{}, false, nil
}
