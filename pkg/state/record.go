package state

import (
	"encoding/json"
	"fmt"
)

// Keys of the string id fields held by a Record.
const (
	KeyMetricID        = "metric_id"
	KeyProductID       = "product_id"
	KeyRateCardID      = "rate_card_id"
	KeyCustomerID      = "customer_id"
	KeyCustomerName    = "customer_name"
	KeyIngestAlias     = "ingest_alias"
	KeyContractID      = "contract_id"
	KeyContractStartAt = "contract_start_at"
)

// Record is the persisted idempotency cache.
type Record struct {
	MetricID        string `json:"metric_id,omitempty"`
	ProductID       string `json:"product_id,omitempty"`
	RateCardID      string `json:"rate_card_id,omitempty"`
	CustomerID      string `json:"customer_id,omitempty"`
	CustomerName    string `json:"customer_name,omitempty"`
	IngestAlias     string `json:"ingest_alias,omitempty"`
	ContractID      string `json:"contract_id,omitempty"`
	ContractStartAt string `json:"contract_start_at,omitempty"`

	// PricesByTier maps tier to unit price in cents. Filled once from the rate card.
	PricesByTier map[string]int64 `json:"prices_by_tier,omitempty"`

	// TxSeq holds transaction id counters: customer -> UTC day (YYYYMMDD) -> tier -> last sequence.
	TxSeq map[string]map[string]map[string]int `json:"tx_seq,omitempty"`
}

// field returns a pointer to the string field named by key, or nil for unknown keys.
func (r *Record) field(key string) *string {
	switch key {
	case KeyMetricID:
		return &r.MetricID
	case KeyProductID:
		return &r.ProductID
	case KeyRateCardID:
		return &r.RateCardID
	case KeyCustomerID:
		return &r.CustomerID
	case KeyCustomerName:
		return &r.CustomerName
	case KeyIngestAlias:
		return &r.IngestAlias
	case KeyContractID:
		return &r.ContractID
	case KeyContractStartAt:
		return &r.ContractStartAt
	}
	return nil
}

// Get returns the value stored under key. An empty value counts as absent.
func (r Record) Get(key string) (string, bool) {
	f := r.field(key)
	if f == nil || *f == "" {
		return "", false
	}
	return *f, true
}

// Has reports whether key holds a non-empty value.
func (r Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Set stores value under key.
func (r *Record) Set(key, value string) error {
	f := r.field(key)
	if f == nil {
		return fmt.Errorf("unknown state key %q", key)
	}
	*f = value
	return nil
}

// Delete clears key. Unknown keys are ignored.
func (r *Record) Delete(key string) {
	if f := r.field(key); f != nil {
		*f = ""
	}
}

// IsEmpty reports whether nothing has been recorded yet.
func (r Record) IsEmpty() bool {
	return r.MetricID == "" && r.ProductID == "" && r.RateCardID == "" &&
		r.CustomerID == "" && r.CustomerName == "" && r.IngestAlias == "" &&
		r.ContractID == "" && r.ContractStartAt == "" &&
		len(r.PricesByTier) == 0 && len(r.TxSeq) == 0
}

// NextSeq increments and returns the transaction counter for customer, day and tier.
func (r *Record) NextSeq(customer, day, tier string) int {
	if r.TxSeq == nil {
		r.TxSeq = make(map[string]map[string]map[string]int)
	}
	byDay, ok := r.TxSeq[customer]
	if !ok {
		byDay = make(map[string]map[string]int)
		r.TxSeq[customer] = byDay
	}
	byTier, ok := byDay[day]
	if !ok {
		byTier = make(map[string]int)
		byDay[day] = byTier
	}
	byTier[tier]++
	return byTier[tier]
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := r
	if r.PricesByTier != nil {
		out.PricesByTier = make(map[string]int64, len(r.PricesByTier))
		for k, v := range r.PricesByTier {
			out.PricesByTier[k] = v
		}
	}
	if r.TxSeq != nil {
		out.TxSeq = make(map[string]map[string]map[string]int, len(r.TxSeq))
		for cust, byDay := range r.TxSeq {
			days := make(map[string]map[string]int, len(byDay))
			for day, byTier := range byDay {
				tiers := make(map[string]int, len(byTier))
				for tier, n := range byTier {
					tiers[tier] = n
				}
				days[day] = tiers
			}
			out.TxSeq[cust] = days
		}
	}
	return out
}

// Decode parses a record from its JSON form.
func Decode(data []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("failed to unmarshal state: %w", err)
	}
	return rec, nil
}

// Encode renders the record as indented JSON with a trailing newline.
func Encode(rec Record) ([]byte, error) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state: %w", err)
	}
	return append(data, '\n'), nil
}
