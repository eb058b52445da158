package observability

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/mux"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status       string                      `json:"status"`
	Timestamp    time.Time                   `json:"timestamp"`
	Version      string                      `json:"version,omitempty"`
	Dependencies map[string]DependencyStatus `json:"dependencies,omitempty"`
}

// DependencyStatus represents the health of a single dependency
type DependencyStatus struct {
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// CheckFunc reports the status of one dependency.
type CheckFunc func(ctx context.Context) DependencyStatus

type namedCheck struct {
	check    CheckFunc
	critical bool
}

// HealthChecker runs registered dependency checks.
type HealthChecker struct {
	version string

	mu     sync.RWMutex
	checks map[string]namedCheck
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(version string) *HealthChecker {
	return &HealthChecker{
		version: version,
		checks:  make(map[string]namedCheck),
	}
}

// Register adds a check. A failing critical check makes the service unhealthy;
// a failing non-critical one only degrades it.
func (h *HealthChecker) Register(name string, critical bool, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = namedCheck{check: check, critical: critical}
}

// Liveness returns a simple liveness probe (always returns 200 if server is running)
func (h *HealthChecker) Liveness(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, http.StatusOK, map[string]interface{}{
		"status":    StatusHealthy,
		"timestamp": time.Now(),
	})
}

// Readiness runs every check and returns 503 when the service is unhealthy.
func (h *HealthChecker) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := h.Check(ctx)

	code := http.StatusOK
	if status.Status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	writeHealth(w, code, status)
}

// Check runs all registered checks in name order.
func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	h.mu.RLock()
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	checks := make(map[string]namedCheck, len(h.checks))
	for name, c := range h.checks {
		checks[name] = c
	}
	h.mu.RUnlock()
	sort.Strings(names)

	status := HealthStatus{
		Status:       StatusHealthy,
		Timestamp:    time.Now(),
		Version:      h.version,
		Dependencies: make(map[string]DependencyStatus, len(names)),
	}

	for _, name := range names {
		c := checks[name]
		dep := c.check(ctx)
		status.Dependencies[name] = dep

		if dep.Status == StatusHealthy {
			continue
		}
		if c.critical && dep.Status == StatusUnhealthy {
			status.Status = StatusUnhealthy
		} else if status.Status != StatusUnhealthy {
			status.Status = StatusDegraded
		}
	}

	return status
}

// StateDirCheck verifies the directory holding the state file exists and is writable.
func StateDirCheck(statePath string) CheckFunc {
	return func(ctx context.Context) DependencyStatus {
		status := DependencyStatus{Status: StatusHealthy, Timestamp: time.Now()}

		dir := filepath.Dir(statePath)
		probe, err := os.CreateTemp(dir, ".novabill-health-*")
		if err != nil {
			status.Status = StatusUnhealthy
			status.Message = fmt.Sprintf("state directory not writable: %v", err)
			return status
		}
		name := probe.Name()
		probe.Close()
		os.Remove(name)

		return status
	}
}

// TokenCheck reports degraded when no platform token is configured.
func TokenCheck(token string) CheckFunc {
	return func(ctx context.Context) DependencyStatus {
		if token == "" {
			return DependencyStatus{
				Status:    StatusDegraded,
				Message:   "METRONOME_BEARER_TOKEN is not set",
				Timestamp: time.Now(),
			}
		}
		return DependencyStatus{Status: StatusHealthy, Timestamp: time.Now()}
	}
}

func writeHealth(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// RegisterHealthRoutes registers health check endpoints
func RegisterHealthRoutes(router *mux.Router, checker *HealthChecker) {
	router.HandleFunc("/healthz", checker.Liveness).Methods(http.MethodGet)
	router.HandleFunc("/readyz", checker.Readiness).Methods(http.MethodGet)
}
