// Package cli provides the novabill command-line interface.
//
// # Overview
//
// Every command reads its configuration from the environment, after loading a
// .env file from the working directory when present. Platform commands need
// METRONOME_BEARER_TOKEN. Ids are cached in NOVA_STATE_PATH
// (.metronome_config.json by default), so repeating a setup command is safe.
//
// # Commands
//
// serve: Run the demo page and JSON API
//
//	novabill serve
//
// setup, customer, contract: Walk the demo workflow from the terminal
//
//	novabill setup metric
//	novabill setup pricing
//	novabill customer create --name "Acme" --alias acme
//	novabill contract create
//
// send, usage: Send events and read back today's totals
//
//	novabill send --tier ultra --count 3
//	novabill usage
//
// rates import: Add flat rates from a tier,price_cents CSV
//
//	novabill rates import --file rates.csv --effective-at 2025-10-01T00:00:00Z
//
// balance, dashboard: Prepaid position and embeddable dashboards
//
//	novabill balance
//	novabill dashboard --type usage
//
// simulate: Post random-tier usage to a running server on a cron schedule
//
//	novabill simulate --schedule "@every 5s" --count 20
//
// state: Inspect the local cache
//
//	novabill state show
//	novabill state reset-prices
package cli
