// Package config provides application configuration management from environment variables.
//
// # Overview
//
// This package loads and validates configuration from environment variables with
// sensible defaults for all settings. A .env file in the working directory is read
// first when present; variables already set in the environment take precedence.
//
// # Configuration Structure
//
// Billing platform:
//
//	METRONOME_BEARER_TOKEN="..."          # required for any platform call
//	METRONOME_BASE_URL="https://api.metronome.com"
//	NOVA_HTTP_TIMEOUT="30s"
//
// Server settings:
//
//	NOVA_HOST="127.0.0.1"
//	NOVA_PORT="5000"
//	NOVA_READ_TIMEOUT="15s"
//	NOVA_WRITE_TIMEOUT="30s"
//	NOVA_SHUTDOWN_TIMEOUT="15s"
//
// Local state:
//
//	NOVA_STATE_PATH=".metronome_config.json"
//	NOVA_WATCH_STATE="true"
//	NOVA_CATALOG_FILE="catalog.yaml"       # optional, see below
//	NOVA_PREPAID_GUARD="false"
//
// Observability settings:
//
//	NOVA_LOG_LEVEL="info"  # debug, info, warn, error
//	NOVA_LOG_FORMAT="json" # json, text
//	NOVA_METRICS_ENABLED="true"
//	NOVA_OTEL_ENABLED="false"
//	NOVA_OTEL_ENDPOINT="localhost:4317"
//
// # Catalog File
//
// The catalog names the metric, product and rate card and lists the tiers in the order their
// rates are created:
//
//	event_type: image_generation
//	dimension: image_type
//	count_property: num_images
//	rate_effective_at: "2025-09-01T00:00:00Z"
//	tiers:
//	  - name: standard
//	    price_cents: 2
//	  - name: ultra
//	    price_cents: 10
//
// # Usage Example
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := cfg.RequirePlatform(); err != nil {
//		log.Fatal(err)
//	}
//
// # Related Packages
//
//   - pkg/billing: Uses the catalog
//   - pkg/observability: Uses observability configuration
package config
