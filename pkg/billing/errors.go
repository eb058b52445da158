package billing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPrecondition marks requests rejected before any platform call.
var ErrPrecondition = errors.New("precondition failed")

var (
	ErrNoCustomer = fmt.Errorf("%w: no customer configured, create a customer first via POST /api/customers", ErrPrecondition)
	ErrNoRateCard = fmt.Errorf("%w: missing rate_card_id, run pricing setup first via POST /api/pricing", ErrPrecondition)
	ErrNoContract = fmt.Errorf("%w: no contract configured, create a contract first via POST /api/contract", ErrPrecondition)
	ErrNoPricing  = fmt.Errorf("%w: product and rate card are not set up", ErrPrecondition)

	// ErrInvalidTier is wrapped by *TierError.
	ErrInvalidTier = errors.New("invalid or missing tier")

	// ErrInvalidDashboard is returned for unknown dashboard types.
	ErrInvalidDashboard = errors.New("unsupported dashboard type")

	// ErrInsufficientCredit is returned by the prepaid guard.
	ErrInsufficientCredit = errors.New("usage exceeds remaining prepaid balance")

	// ErrStateWrite wraps failures to persist the local state file.
	ErrStateWrite = errors.New("failed to save local state")
)

// TierError reports a tier outside the catalog along with the allowed names.
type TierError struct {
	Tier    string
	Allowed []string
}

func (e *TierError) Error() string {
	if e.Tier == "" {
		return fmt.Sprintf("%s (allowed: %s)", ErrInvalidTier, strings.Join(e.Allowed, ", "))
	}
	return fmt.Sprintf("%s %q (allowed: %s)", ErrInvalidTier, e.Tier, strings.Join(e.Allowed, ", "))
}

func (e *TierError) Unwrap() error {
	return ErrInvalidTier
}

func stateWriteError(err error) error {
	return fmt.Errorf("%w: %w", ErrStateWrite, err)
}
