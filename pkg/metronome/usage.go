package metronome

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Ingest sends usage events. The platform deduplicates on transaction id.
func (c *Client) Ingest(ctx context.Context, events ...Event) error {
	if len(events) == 0 {
		return nil
	}
	for i, ev := range events {
		if ev.CustomerID == "" || ev.EventType == "" || ev.TransactionID == "" || ev.Timestamp == "" {
			return fmt.Errorf("event %d is missing a required field", i)
		}
	}
	return c.doJSON(ctx, "usage.ingest", http.MethodPost, "/v1/ingest", nil, events, nil)
}

// UsageGroups returns usage for one metric in [start, end) grouped by groupKey.
func (c *Client) UsageGroups(ctx context.Context, customerID, metricID string, start, end time.Time, groupKey, windowSize string) ([]UsageGroup, error) {
	if windowSize == "" {
		windowSize = "DAY"
	}
	query := UsageGroupQuery{
		CustomerID:       customerID,
		BillableMetricID: metricID,
		WindowSize:       windowSize,
		StartingOn:       FormatTimestamp(start),
		EndingBefore:     FormatTimestamp(end),
	}
	query.GroupBy.Key = groupKey

	var rows []UsageGroup
	var next *string
	for page := 0; page < maxPages; page++ {
		var resp envelope[[]UsageGroup]
		if err := c.doJSON(ctx, "usage.groups", http.MethodPost, "/v1/usage/groups", pageQuery(next), query, &resp); err != nil {
			return nil, err
		}
		rows = append(rows, resp.Data...)
		if resp.NextPage == nil || *resp.NextPage == "" {
			break
		}
		next = resp.NextPage
	}
	return rows, nil
}
