package billing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/platinummonkey/novabill/pkg/metronome"
)

// fakePlatform records calls and returns canned responses.
type fakePlatform struct {
	mu    sync.Mutex
	calls map[string]int
	seq   int

	aliases   map[string]metronome.Customer
	prices    map[string]int64
	groups    []metronome.UsageGroup
	balances  []metronome.CustomerBalance
	dashboard string

	// errs fails the named operation.
	errs map[string]error

	// priceGate, when set, blocks PricesByGroupValue until closed or ctx is done.
	priceGate chan struct{}

	metrics   []metronome.BillableMetricInput
	products  []metronome.ProductInput
	rates     []metronome.FlatRateInput
	contracts []metronome.ContractInput
	events    []metronome.Event
	usageArgs []usageCall
}

type usageCall struct {
	customerID, metricID string
	start, end           time.Time
	groupKey, window     string
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		calls:   make(map[string]int),
		aliases: make(map[string]metronome.Customer),
		errs:    make(map[string]error),
	}
}

func (f *fakePlatform) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.errs[op]
}

func (f *fakePlatform) nextID(prefix string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	return fmt.Sprintf("%s_%d", prefix, f.seq)
}

func (f *fakePlatform) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakePlatform) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakePlatform) CreateBillableMetric(ctx context.Context, in metronome.BillableMetricInput) (string, error) {
	if err := f.record("create_metric"); err != nil {
		return "", err
	}
	f.mu.Lock()
	f.metrics = append(f.metrics, in)
	f.mu.Unlock()
	return f.nextID("m"), nil
}

func (f *fakePlatform) CreateProduct(ctx context.Context, in metronome.ProductInput) (string, error) {
	if err := f.record("create_product"); err != nil {
		return "", err
	}
	f.mu.Lock()
	f.products = append(f.products, in)
	f.mu.Unlock()
	return f.nextID("prod"), nil
}

func (f *fakePlatform) CreateRateCard(ctx context.Context, in metronome.RateCardInput) (string, error) {
	if err := f.record("create_rate_card"); err != nil {
		return "", err
	}
	return f.nextID("rc"), nil
}

func (f *fakePlatform) AddFlatRate(ctx context.Context, in metronome.FlatRateInput) (metronome.Rate, error) {
	if err := f.record("add_rate"); err != nil {
		return metronome.Rate{}, err
	}
	f.mu.Lock()
	f.rates = append(f.rates, in)
	f.mu.Unlock()
	return metronome.Rate{RateType: "FLAT"}, nil
}

func (f *fakePlatform) PricesByGroupValue(ctx context.Context, rateCardID, productID, at, groupKey string) (map[string]int64, error) {
	if f.priceGate != nil {
		select {
		case <-f.priceGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := f.record("get_rates"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyPrices(f.prices), nil
}

func (f *fakePlatform) CreateCustomer(ctx context.Context, name, alias string) (metronome.Customer, error) {
	if err := f.record("create_customer"); err != nil {
		return metronome.Customer{}, err
	}
	c := metronome.Customer{ID: f.nextID("cust"), Name: name}
	if alias != "" {
		c.IngestAliases = []string{alias}
	}
	return c, nil
}

func (f *fakePlatform) GetCustomerByIngestAlias(ctx context.Context, alias string) (metronome.Customer, bool, error) {
	if err := f.record("get_customer"); err != nil {
		return metronome.Customer{}, false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.aliases[alias]
	return c, ok, nil
}

func (f *fakePlatform) CreateContract(ctx context.Context, in metronome.ContractInput) (string, error) {
	if err := f.record("create_contract"); err != nil {
		return "", err
	}
	f.mu.Lock()
	f.contracts = append(f.contracts, in)
	f.mu.Unlock()
	return f.nextID("ct"), nil
}

func (f *fakePlatform) Ingest(ctx context.Context, events ...metronome.Event) error {
	if err := f.record("ingest"); err != nil {
		return err
	}
	f.mu.Lock()
	f.events = append(f.events, events...)
	f.mu.Unlock()
	return nil
}

func (f *fakePlatform) UsageGroups(ctx context.Context, customerID, metricID string, start, end time.Time, groupKey, windowSize string) ([]metronome.UsageGroup, error) {
	if err := f.record("usage_groups"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.usageArgs = append(f.usageArgs, usageCall{customerID, metricID, start, end, groupKey, windowSize})
	return f.groups, nil
}

func (f *fakePlatform) CustomerBalances(ctx context.Context, customerID string) ([]metronome.CustomerBalance, error) {
	if err := f.record("balances"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances, nil
}

func (f *fakePlatform) EmbeddableDashboardURL(ctx context.Context, customerID, dashboard string) (string, error) {
	if err := f.record("dashboard"); err != nil {
		return "", err
	}
	return f.dashboard + "?customer=" + customerID + "&type=" + dashboard, nil
}
