package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/platinummonkey/novabill/pkg/billing"
	"github.com/platinummonkey/novabill/pkg/httputil"
	"github.com/platinummonkey/novabill/pkg/metronome"
	"github.com/platinummonkey/novabill/pkg/observability"
)

func (s *Server) setupMetric(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.EnsureMetric(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "Failed to create metric", err)
		return
	}
	_ = httputil.WriteSuccess(w, MetricResponse{
		Success:      true,
		MetricName:   s.service.Catalog().MetricName,
		MetricResult: result,
	})
}

func (s *Server) setupPricing(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.EnsurePricing(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "Failed to create pricing", err)
		return
	}
	_ = httputil.WriteSuccess(w, PricingResponse{Success: true, PricingResult: result})
}

func (s *Server) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	customer, err := s.service.EnsureCustomer(r.Context(), req.Name, req.IngestAlias)
	if err != nil {
		s.writeServiceError(w, r, "Failed to create customer", err)
		return
	}
	_ = httputil.WriteSuccess(w, CustomerResponse{
		Success:    true,
		CustomerID: customer.ID,
		Customer:   customer,
	})
}

func (s *Server) createContract(w http.ResponseWriter, r *http.Request) {
	contract, err := s.service.EnsureContract(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "Failed to create contract", err)
		return
	}
	_ = httputil.WriteSuccess(w, ContractResponse{
		Success:    true,
		ContractID: contract.ID,
		Contract:   contract,
	})
}

func (s *Server) generateUsage(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	receipt, err := s.service.SendUsage(r.Context(), billing.UsageRequest{
		Tier:          req.Tier,
		TransactionID: req.TransactionID,
		Model:         req.Model,
		Region:        req.Region,
	})
	if err != nil {
		s.writeServiceError(w, r, "Failed to send usage", err)
		return
	}
	_ = httputil.WriteSuccess(w, receipt)
}

func (s *Server) getUsage(w http.ResponseWriter, r *http.Request) {
	usage, err := s.service.TodayUsage(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "Failed to fetch usage", err)
		return
	}
	_ = httputil.WriteSuccess(w, usage)
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	_ = httputil.WriteSuccess(w, s.service.Status())
}

func (s *Server) getBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := s.service.Balance(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "Failed to fetch balance", err)
		return
	}
	_ = httputil.WriteSuccess(w, balance)
}

func (s *Server) getDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard := httputil.ParseQueryString(r, "type", metronome.DashboardInvoices)

	url, err := s.service.DashboardURL(r.Context(), dashboard)
	if err != nil {
		s.writeServiceError(w, r, "Failed to fetch dashboard", err)
		return
	}
	_ = httputil.WriteSuccess(w, DashboardResponse{Dashboard: dashboard, URL: url})
}

// writeServiceError maps billing errors to status codes. Guard failures are the
// caller's to fix (400); anything else came from the platform (502) unless the
// state file could not be written (500).
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, action string, err error) {
	log := observability.FromContext(r.Context()).WithError(err)

	var tierErr *billing.TierError
	switch {
	case errors.As(err, &tierErr):
		httputil.WriteErrorFields(w, http.StatusBadRequest, "Invalid or missing 'tier'", map[string]interface{}{
			"allowed": tierErr.Allowed,
		})
	case errors.Is(err, billing.ErrPrecondition):
		httputil.WriteBadRequest(w, preconditionMessage(err))
	case errors.Is(err, billing.ErrInvalidDashboard):
		httputil.WriteBadRequest(w, err.Error())
	case errors.Is(err, billing.ErrInsufficientCredit):
		httputil.WriteErrorMessage(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, billing.ErrStateWrite):
		log.Error(action)
		httputil.WriteInternalError(w, fmt.Errorf("%s: %w", action, err))
	default:
		log.Error(action)
		httputil.WriteBadGateway(w, fmt.Sprintf("%s: %s", action, upstreamMessage(err)))
	}
}

// preconditionMessage drops the sentinel prefix from guard errors.
func preconditionMessage(err error) string {
	msg := err.Error()
	prefix := billing.ErrPrecondition.Error() + ": "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		msg = msg[len(prefix):]
	}
	return msg
}

// upstreamMessage drops the service's own "<step>: " wrap, which repeats the
// handler's action.
func upstreamMessage(err error) string {
	var apiErr *metronome.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	if inner := errors.Unwrap(err); inner != nil {
		return inner.Error()
	}
	return err.Error()
}
