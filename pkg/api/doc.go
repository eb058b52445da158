// Package api provides the HTTP server for the Nova usage billing demo.
//
// # Overview
//
// The server renders a one-page demo UI and exposes JSON endpoints that drive a
// BillingService:
//
//	POST /api/metrics      create or reuse the billable metric
//	POST /api/pricing      create or reuse the product, rate card and flat rates
//	POST /api/customers    create, adopt or reuse the demo customer
//	POST /api/contract     bind the rate card to the customer
//	POST /api/generate     send one usage event for a tier
//	GET  /api/usage        today's counts and estimated amounts per tier
//	GET  /api/status       cached ids and workflow stage
//	GET  /api/balance      prepaid commit position
//	GET  /api/dashboard    embeddable dashboard URL (?type=invoices|usage|commits_and_credits)
//
// Health checks (/healthz, /readyz) and Prometheus metrics (/metrics) are mounted
// when configured in Options.
//
// # Errors
//
// Every failure is a JSON object with an "error" key. Guard failures and bad input
// return 400, an invalid tier also carries the "allowed" tier list, the prepaid
// guard returns 402, state file write failures return 500 and platform failures
// return 502.
//
// # Usage Example
//
//	server := api.NewServer(service, api.Options{Logger: logger})
//	http.ListenAndServe(":5000", server.Handler())
package api
