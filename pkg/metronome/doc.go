// Package metronome is a small REST client for the Metronome usage billing API.
//
// It covers the calls the demo needs: customers, billable metrics, products, rate
// cards and rates, contracts, usage ingest and grouped usage, customer balances and
// embeddable dashboards. Every response is unwrapped from the platform's {"data": ...}
// envelope, and list calls follow next_page cursors.
//
// Non-2xx responses are returned as *APIError carrying the status code and the
// platform's message. Calls are never retried.
//
// # Usage Example
//
//	client := metronome.NewClient(token,
//		metronome.WithHTTPClient(metronome.NewHTTPClient(30*time.Second)),
//		metronome.WithRecorder(metrics),
//	)
//	customer, err := client.CreateCustomer(ctx, "Nova Demo Customer", "")
//	if err != nil {
//		var apiErr *metronome.APIError
//		if errors.As(err, &apiErr) {
//			log.Printf("upstream status %d", apiErr.StatusCode)
//		}
//	}
package metronome
