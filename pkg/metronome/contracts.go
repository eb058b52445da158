package metronome

import (
	"context"
	"fmt"
	"net/http"
)

// CreateContract creates a contract binding the rate card to the customer.
func (c *Client) CreateContract(ctx context.Context, in ContractInput) (string, error) {
	var resp envelope[idResponse]
	if err := c.doJSON(ctx, "contracts.create", http.MethodPost, "/v1/contracts/create", nil, in, &resp); err != nil {
		return "", err
	}
	if resp.Data.ID == "" {
		return "", fmt.Errorf("contract create returned no id")
	}
	return resp.Data.ID, nil
}

// CustomerBalances lists commits and credits for the customer with their balances.
func (c *Client) CustomerBalances(ctx context.Context, customerID string) ([]CustomerBalance, error) {
	payload := map[string]any{
		"customer_id":     customerID,
		"include_balance": true,
		"include_ledgers": false,
	}

	var balances []CustomerBalance
	var next *string
	for page := 0; page < maxPages; page++ {
		var resp envelope[[]CustomerBalance]
		if err := c.doJSON(ctx, "contracts.customer_balances", http.MethodPost, "/v1/contracts/customerBalances/list", pageQuery(next), payload, &resp); err != nil {
			return nil, err
		}
		balances = append(balances, resp.Data...)
		if resp.NextPage == nil || *resp.NextPage == "" {
			break
		}
		next = resp.NextPage
	}
	return balances, nil
}

// EmbeddableDashboardURL returns a URL for an embeddable customer dashboard.
func (c *Client) EmbeddableDashboardURL(ctx context.Context, customerID, dashboard string) (string, error) {
	if !ValidDashboard(dashboard) {
		return "", fmt.Errorf("unsupported dashboard %q", dashboard)
	}
	payload := map[string]string{
		"customer_id": customerID,
		"dashboard":   dashboard,
	}

	var resp envelope[struct {
		URL string `json:"url"`
	}]
	if err := c.doJSON(ctx, "dashboards.embeddable_url", http.MethodPost, "/v1/dashboards/getEmbeddableUrl", nil, payload, &resp); err != nil {
		return "", err
	}
	return resp.Data.URL, nil
}
