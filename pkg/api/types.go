package api

import "github.com/platinummonkey/novabill/pkg/billing"

// CustomerRequest is the body of POST /api/customers.
type CustomerRequest struct {
	Name        string `json:"name"`
	IngestAlias string `json:"ingest_alias"`
}

// CustomerResponse is returned by POST /api/customers.
type CustomerResponse struct {
	Success    bool             `json:"success"`
	CustomerID string           `json:"customer_id"`
	Customer   billing.Customer `json:"customer"`
}

// ContractResponse is returned by POST /api/contract.
type ContractResponse struct {
	Success    bool             `json:"success"`
	ContractID string           `json:"contract_id"`
	Contract   billing.Contract `json:"contract"`
}

// MetricResponse is returned by POST /api/metrics.
type MetricResponse struct {
	Success    bool   `json:"success"`
	MetricName string `json:"metric_name"`
	billing.MetricResult
}

// PricingResponse is returned by POST /api/pricing.
type PricingResponse struct {
	Success bool `json:"success"`
	billing.PricingResult
}

// GenerateRequest is the body of POST /api/generate.
type GenerateRequest struct {
	Tier          string `json:"tier"`
	TransactionID string `json:"transaction_id"`
	Model         string `json:"model"`
	Region        string `json:"region"`
}

// DashboardResponse is returned by GET /api/dashboard.
type DashboardResponse struct {
	Dashboard string `json:"dashboard"`
	URL       string `json:"url"`
}
