package billing

import (
	"github.com/shopspring/decimal"
)

// Stage is the demo workflow position derived from which ids are cached.
type Stage string

const (
	StageNoCustomer  Stage = "NoCustomer"
	StageHasCustomer Stage = "HasCustomer"
	StageHasContract Stage = "HasContract"
)

// Status reports the cached ids. Absent ids encode as null.
type Status struct {
	MetricID   *string `json:"metric_id"`
	ProductID  *string `json:"product_id"`
	RateCardID *string `json:"rate_card_id"`
	CustomerID *string `json:"customer_id"`
	ContractID *string `json:"contract_id"`
	Stage      Stage   `json:"stage"`
}

// MetricResult is returned by EnsureMetric.
type MetricResult struct {
	MetricID string `json:"metric_id"`
	Created  bool   `json:"created"`
}

// CreatedRate is one rate added during EnsurePricing or ImportRates.
type CreatedRate struct {
	Tier       string `json:"tier"`
	PriceCents int64  `json:"price_cents"`
}

// PricingResult is returned by EnsurePricing. Rates only lists rates added in
// this call and is empty when cached ids were reused.
type PricingResult struct {
	MetricID        string        `json:"metric_id"`
	ProductID       string        `json:"product_id"`
	RateCardID      string        `json:"rate_card_id"`
	CreatedProduct  bool          `json:"created_product"`
	CreatedRateCard bool          `json:"created_rate_card"`
	Rates           []CreatedRate `json:"rates"`
}

// Customer is the demo customer as cached locally.
type Customer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IngestAlias string `json:"ingest_alias,omitempty"`
	// Source is "cache", "alias" or "created".
	Source string `json:"source"`
}

// Contract is the demo contract as cached locally.
type Contract struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	RateCardID string `json:"rate_card_id,omitempty"`
	StartingAt string `json:"starting_at,omitempty"`
	Created    bool   `json:"created"`
}

// TierUsage is today's usage for one tier. Amount is count times the cached
// unit price, in cents.
type TierUsage struct {
	Count         int64  `json:"count"`
	Amount        int64  `json:"amount"`
	AmountDisplay string `json:"amount_display"`
}

// UsageReceipt describes an accepted usage event.
type UsageReceipt struct {
	Success       bool   `json:"success"`
	EventType     string `json:"event_type"`
	Tier          string `json:"tier"`
	CustomerID    string `json:"customer_id"`
	TransactionID string `json:"transaction_id"`
	Timestamp     string `json:"timestamp"`
}

// UsageRequest is one usage send. Empty fields take defaults.
type UsageRequest struct {
	Tier          string
	TransactionID string
	Model         string
	Region        string
}

// Balance is the prepaid position of the cached customer, in cents.
type Balance struct {
	CustomerID       string `json:"customer_id"`
	TotalCommitCents int64  `json:"total_commit_cents"`
	RemainingCents   int64  `json:"remaining_cents"`
	TotalDisplay     string `json:"total_display"`
	RemainingDisplay string `json:"remaining_display"`
}

// PriceLine is one tier's unit price as shown on the demo page.
type PriceLine struct {
	Tier    string
	Display string
}

// RateRow is one row of a rate import.
type RateRow struct {
	Tier       string
	PriceCents int64
}

// PricePlaceholder is shown for tiers without a known price.
const PricePlaceholder = "—"

// FormatCents renders cents as a dollar string such as "$0.10".
func FormatCents(cents int64) string {
	return "$" + decimal.New(cents, -2).StringFixed(2)
}
