// Package health serves the liveness and readiness probes.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"tickerpulse/pkg/logger"
)

// Checker reports whether one backing store is reachable
type Checker interface {
	Health(ctx context.Context) error
}

type namedCheck struct {
	name    string
	checker Checker
}

// Handler probes the registered backends. A service running without a
// store simply never registers its check.
type Handler struct {
	log         *logger.Logger
	checks      []namedCheck
	startTime   time.Time
	serviceName string
	version     string
}

// New creates a health handler with no checks registered
func New(log *logger.Logger, serviceName, version string) *Handler {
	return &Handler{
		log:         log,
		startTime:   time.Now(),
		serviceName: serviceName,
		version:     version,
	}
}

// AddCheck registers a backend probe under the given name
func (h *Handler) AddCheck(name string, c Checker) {
	h.checks = append(h.checks, namedCheck{name: name, checker: c})
}

// Status is the aggregate health report
type Status struct {
	Status    string                     `json:"status"` // healthy, degraded, unhealthy
	Service   string                     `json:"service"`
	Version   string                     `json:"version"`
	Uptime    string                     `json:"uptime"`
	Timestamp string                     `json:"timestamp"`
	Checks    map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth is the outcome of a single backend probe
type ComponentHealth struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time,omitempty"`
	Error        string `json:"error,omitempty"`
}

// HandleLiveness returns 200 OK while the process is running.
// Used by Kubernetes liveness probes.
func (h *Handler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
}

// HandleReadiness reports whether the service should receive traffic.
// Any failing backend makes it not ready.
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks, healthy, total := h.runChecks(ctx)

	status := h.newStatus(checks)
	statusCode := http.StatusOK
	if healthy < total {
		status.Status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
		h.log.Warnw("Readiness check failed", "checks", checks)
	}

	writeStatus(w, statusCode, status)
}

// HandleHealth returns the detailed health report. Partially failing
// backends report "degraded" but still answer 200: the service keeps
// serving live snapshots without its archive or cache.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	checks, healthy, total := h.runChecks(ctx)

	status := h.newStatus(checks)
	statusCode := http.StatusOK
	switch {
	case total > 0 && healthy == 0:
		status.Status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	case healthy < total:
		status.Status = "degraded"
	}

	writeStatus(w, statusCode, status)
}

func (h *Handler) newStatus(checks map[string]ComponentHealth) Status {
	return Status{
		Status:    "healthy",
		Service:   h.serviceName,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().Format(time.RFC3339),
		Checks:    checks,
	}
}

func (h *Handler) runChecks(ctx context.Context) (checks map[string]ComponentHealth, healthy, total int) {
	checks = make(map[string]ComponentHealth, len(h.checks))

	for _, c := range h.checks {
		total++
		result := h.probe(ctx, c)
		checks[c.name] = result
		if result.Status == "healthy" {
			healthy++
		}
	}

	return checks, healthy, total
}

func (h *Handler) probe(ctx context.Context, c namedCheck) ComponentHealth {
	start := time.Now()
	err := c.checker.Health(ctx)
	elapsed := time.Since(start)

	if err != nil {
		h.log.Errorw("Health check failed", "component", c.name, "error", err, "elapsed", elapsed)
		return ComponentHealth{
			Status:       "unhealthy",
			ResponseTime: elapsed.String(),
			Error:        err.Error(),
		}
	}

	return ComponentHealth{
		Status:       "healthy",
		ResponseTime: elapsed.String(),
	}
}

func writeStatus(w http.ResponseWriter, code int, status Status) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(status)
}
