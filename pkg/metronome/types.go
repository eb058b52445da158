package metronome

import (
	"github.com/shopspring/decimal"
)

// Customer is a Metronome customer.
type Customer struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	IngestAliases []string `json:"ingest_aliases,omitempty"`
}

// PropertyFilter restricts which events a billable metric matches.
type PropertyFilter struct {
	Name   string `json:"name"`
	Exists *bool  `json:"exists,omitempty"`
}

// EventTypeFilter selects events by type.
type EventTypeFilter struct {
	InValues []string `json:"in_values"`
}

// BillableMetricInput is the create payload for a billable metric.
type BillableMetricInput struct {
	Name            string           `json:"name"`
	AggregationType string           `json:"aggregation_type"`
	AggregationKey  string           `json:"aggregation_key,omitempty"`
	EventTypeFilter EventTypeFilter  `json:"event_type_filter"`
	GroupKeys       [][]string       `json:"group_keys,omitempty"`
	PropertyFilters []PropertyFilter `json:"property_filters,omitempty"`
}

// ProductInput is the create payload for a USAGE product.
type ProductInput struct {
	Name                 string   `json:"name"`
	Type                 string   `json:"type"`
	BillableMetricID     string   `json:"billable_metric_id"`
	PricingGroupKey      []string `json:"pricing_group_key,omitempty"`
	PresentationGroupKey []string `json:"presentation_group_key,omitempty"`
}

// RateCardInput is the create payload for a rate card.
type RateCardInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// FlatRateInput adds a single FLAT rate to a rate card.
type FlatRateInput struct {
	RateCardID         string            `json:"rate_card_id"`
	ProductID          string            `json:"product_id"`
	Entitled           bool              `json:"entitled"`
	RateType           string            `json:"rate_type"`
	Price              int64             `json:"price"`
	StartingAt         string            `json:"starting_at"`
	PricingGroupValues map[string]string `json:"pricing_group_values,omitempty"`
}

// Rate is the price part of a rate card entry.
type Rate struct {
	RateType string          `json:"rate_type"`
	Price    decimal.Decimal `json:"price"`
}

// RateEntry is one row returned by getRates.
type RateEntry struct {
	ProductID          string            `json:"product_id"`
	Entitled           bool              `json:"entitled"`
	StartingAt         string            `json:"starting_at"`
	PricingGroupValues map[string]string `json:"pricing_group_values"`
	Rate               Rate              `json:"rate"`
}

// ContractInput is the create payload for a contract.
type ContractInput struct {
	CustomerID          string `json:"customer_id"`
	RateCardID          string `json:"rate_card_id"`
	StartingAt          string `json:"starting_at"`
	Name                string `json:"name,omitempty"`
	NetPaymentTermsDays *int   `json:"net_payment_terms_days,omitempty"`
}

// Event is a single usage event. Property values are strings.
type Event struct {
	CustomerID    string            `json:"customer_id"`
	EventType     string            `json:"event_type"`
	Timestamp     string            `json:"timestamp"`
	TransactionID string            `json:"transaction_id"`
	Properties    map[string]string `json:"properties,omitempty"`
}

// UsageGroupQuery selects grouped usage for one metric and customer.
type UsageGroupQuery struct {
	CustomerID       string `json:"customer_id"`
	BillableMetricID string `json:"billable_metric_id"`
	WindowSize       string `json:"window_size"`
	StartingOn       string `json:"starting_on"`
	EndingBefore     string `json:"ending_before"`
	GroupBy          struct {
		Key string `json:"key"`
	} `json:"group_by"`
}

// UsageGroup is one (window, group value) row of grouped usage.
type UsageGroup struct {
	StartingOn   string              `json:"starting_on"`
	EndingBefore string              `json:"ending_before"`
	GroupKey     *string             `json:"group_key"`
	GroupValue   *string             `json:"group_value"`
	Value        decimal.NullDecimal `json:"value"`
}

// ScheduleItem is one entry of a commit's access schedule.
type ScheduleItem struct {
	Amount     decimal.Decimal `json:"amount"`
	StartingAt string          `json:"starting_at"`
	EndingAt   string          `json:"ending_before"`
}

// CustomerBalance is a commit or credit with its remaining balance.
type CustomerBalance struct {
	ID             string          `json:"id"`
	Type           string          `json:"type"`
	Balance        decimal.Decimal `json:"balance"`
	AccessSchedule struct {
		ScheduleItems []ScheduleItem `json:"schedule_items"`
	} `json:"access_schedule"`
}

// Dashboard types accepted by the embeddable URL endpoint.
const (
	DashboardInvoices          = "invoices"
	DashboardUsage             = "usage"
	DashboardCommitsAndCredits = "commits_and_credits"
)

// ValidDashboard reports whether name is a supported dashboard type.
func ValidDashboard(name string) bool {
	switch name {
	case DashboardInvoices, DashboardUsage, DashboardCommitsAndCredits:
		return true
	}
	return false
}

type idResponse struct {
	ID string `json:"id"`
}
