package billing

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/platinummonkey/novabill/pkg/config"
	"github.com/platinummonkey/novabill/pkg/metronome"
	"github.com/platinummonkey/novabill/pkg/observability"
	"github.com/platinummonkey/novabill/pkg/state"
)

// Platform is the part of the billing platform API the service calls.
// *metronome.Client satisfies it.
type Platform interface {
	CreateBillableMetric(ctx context.Context, in metronome.BillableMetricInput) (string, error)
	CreateProduct(ctx context.Context, in metronome.ProductInput) (string, error)
	CreateRateCard(ctx context.Context, in metronome.RateCardInput) (string, error)
	AddFlatRate(ctx context.Context, in metronome.FlatRateInput) (metronome.Rate, error)
	PricesByGroupValue(ctx context.Context, rateCardID, productID, at, groupKey string) (map[string]int64, error)

	CreateCustomer(ctx context.Context, name, alias string) (metronome.Customer, error)
	GetCustomerByIngestAlias(ctx context.Context, alias string) (metronome.Customer, bool, error)
	CreateContract(ctx context.Context, in metronome.ContractInput) (string, error)

	Ingest(ctx context.Context, events ...metronome.Event) error
	UsageGroups(ctx context.Context, customerID, metricID string, start, end time.Time, groupKey, windowSize string) ([]metronome.UsageGroup, error)

	CustomerBalances(ctx context.Context, customerID string) ([]metronome.CustomerBalance, error)
	EmbeddableDashboardURL(ctx context.Context, customerID, dashboard string) (string, error)
}

// Options configures optional Service behavior.
type Options struct {
	Logger       logrus.FieldLogger
	Metrics      *observability.Metrics
	PrepaidGuard bool
	// Now overrides the clock, mainly for tests.
	Now func() time.Time
}

// Service runs the demo's setup, customer, contract and usage actions against
// the platform, using the store as an idempotency cache.
type Service struct {
	platform     Platform
	store        state.Store
	catalog      config.Catalog
	logger       logrus.FieldLogger
	metrics      *observability.Metrics
	prepaidGuard bool
	now          func() time.Time

	priceLoads singleflight.Group
}

// NewService creates a new billing service
func NewService(platform Platform, store state.Store, catalog config.Catalog, opts Options) *Service {
	s := &Service{
		platform:     platform,
		store:        store,
		catalog:      catalog,
		logger:       opts.Logger,
		metrics:      opts.Metrics,
		prepaidGuard: opts.PrepaidGuard,
		now:          opts.Now,
	}
	if s.logger == nil {
		s.logger = logrus.StandardLogger()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Catalog returns the configured catalog.
func (s *Service) Catalog() config.Catalog {
	return s.catalog
}

// Status reports the cached ids and the workflow stage. It never calls the platform.
func (s *Service) Status() Status {
	rec := s.store.Load()
	return Status{
		MetricID:   optional(rec.MetricID),
		ProductID:  optional(rec.ProductID),
		RateCardID: optional(rec.RateCardID),
		CustomerID: optional(rec.CustomerID),
		ContractID: optional(rec.ContractID),
		Stage:      stageOf(rec),
	}
}

func stageOf(rec state.Record) Stage {
	switch {
	case rec.CustomerID != "" && rec.ContractID != "":
		return StageHasContract
	case rec.CustomerID != "":
		return StageHasCustomer
	default:
		return StageNoCustomer
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// log returns the service logger tagged with the request ID when ctx carries one.
func (s *Service) log(ctx context.Context) logrus.FieldLogger {
	if id := observability.GetRequestID(ctx); id != "" {
		return s.logger.WithField("request_id", id)
	}
	return s.logger
}

// setIDs persists id fields in one load-modify-save.
func (s *Service) setIDs(fields map[string]string) error {
	var setErr error
	err := s.store.Update(func(rec *state.Record) {
		for k, v := range fields {
			if err := rec.Set(k, v); err != nil && setErr == nil {
				setErr = err
			}
		}
	})
	if setErr != nil {
		return setErr
	}
	if err != nil {
		return stateWriteError(err)
	}
	return nil
}
