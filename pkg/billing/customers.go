package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/novabill/pkg/metronome"
	"github.com/platinummonkey/novabill/pkg/state"
)

// DefaultCustomerName is used when no name is supplied.
const DefaultCustomerName = "Nova Demo Customer"

// EnsureCustomer returns the cached customer. On a miss it adopts the platform
// customer holding alias, if any, and otherwise creates one with the alias attached.
func (s *Service) EnsureCustomer(ctx context.Context, name, alias string) (Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultCustomerName
	}
	alias = strings.TrimSpace(alias)

	rec := s.store.Load()
	if rec.CustomerID != "" {
		s.metrics.ObserveCache("customer", true)
		return Customer{
			ID:          rec.CustomerID,
			Name:        rec.CustomerName,
			IngestAlias: rec.IngestAlias,
			Source:      "cache",
		}, nil
	}
	s.metrics.ObserveCache("customer", false)

	var (
		customer metronome.Customer
		source   string
	)
	if alias != "" {
		found, ok, err := s.platform.GetCustomerByIngestAlias(ctx, alias)
		if err != nil {
			return Customer{}, fmt.Errorf("look up customer by alias: %w", err)
		}
		if ok {
			customer, source = found, "alias"
		}
	}
	if source == "" {
		created, err := s.platform.CreateCustomer(ctx, name, alias)
		if err != nil {
			return Customer{}, fmt.Errorf("create customer: %w", err)
		}
		customer, source = created, "created"
	}
	if customer.Name == "" {
		customer.Name = name
	}

	var setErr error
	err := s.store.Update(func(rec *state.Record) {
		// A contract belongs to the previous customer; drop it.
		if rec.CustomerID != customer.ID {
			rec.Delete(state.KeyContractID)
			rec.Delete(state.KeyContractStartAt)
		}
		for k, v := range map[string]string{
			state.KeyCustomerID:   customer.ID,
			state.KeyCustomerName: customer.Name,
			state.KeyIngestAlias:  alias,
		} {
			if err := rec.Set(k, v); err != nil {
				setErr = err
			}
		}
	})
	if setErr != nil {
		return Customer{}, setErr
	}
	if err != nil {
		return Customer{}, stateWriteError(err)
	}

	s.log(ctx).WithFields(logrus.Fields{
		"customer_id": customer.ID,
		"source":      source,
	}).Info("Customer ready")

	return Customer{ID: customer.ID, Name: customer.Name, IngestAlias: alias, Source: source}, nil
}

// EnsureContract returns the cached contract or creates one binding the cached
// rate card to the cached customer. Both must be present; otherwise the store is
// left untouched and no platform call is made.
//
// There is no update path: after the state file is deleted a duplicate contract
// is created upstream.
func (s *Service) EnsureContract(ctx context.Context) (Contract, error) {
	rec := s.store.Load()
	if rec.ContractID != "" {
		s.metrics.ObserveCache("contract", true)
		return Contract{
			ID:         rec.ContractID,
			CustomerID: rec.CustomerID,
			RateCardID: rec.RateCardID,
			StartingAt: rec.ContractStartAt,
		}, nil
	}
	s.metrics.ObserveCache("contract", false)

	if rec.CustomerID == "" {
		return Contract{}, ErrNoCustomer
	}
	if rec.RateCardID == "" {
		return Contract{}, ErrNoRateCard
	}

	id, err := s.platform.CreateContract(ctx, metronome.ContractInput{
		CustomerID: rec.CustomerID,
		RateCardID: rec.RateCardID,
		StartingAt: s.catalog.ContractStartAt,
	})
	if err != nil {
		return Contract{}, fmt.Errorf("create contract: %w", err)
	}

	if err := s.setIDs(map[string]string{
		state.KeyContractID:      id,
		state.KeyContractStartAt: s.catalog.ContractStartAt,
	}); err != nil {
		return Contract{}, err
	}

	s.log(ctx).WithFields(logrus.Fields{
		"contract_id": id,
		"customer_id": rec.CustomerID,
	}).Info("Created contract")

	return Contract{
		ID:         id,
		CustomerID: rec.CustomerID,
		RateCardID: rec.RateCardID,
		StartingAt: s.catalog.ContractStartAt,
		Created:    true,
	}, nil
}
