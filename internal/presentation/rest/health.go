package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Checker reports whether one dependency is reachable.
type Checker func(ctx context.Context) error

// HealthHandler serves liveness and readiness probes over HTTP.
type HealthHandler struct {
	checks  map[string]Checker
	logger  *slog.Logger
	service string
	timeout time.Duration
}

// NewHealthHandler creates a health check HTTP handler. Readiness runs every
// check in checks, keyed by dependency name.
func NewHealthHandler(service string, checks map[string]Checker, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		checks:  checks,
		logger:  logger,
		service: service,
		timeout: 2 * time.Second,
	}
}

// RegisterRoutes attaches health-check routes to the given mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.liveness)
	mux.HandleFunc("GET /readyz", h.readiness)
}

func (h *HealthHandler) liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": h.service,
	})
}

func (h *HealthHandler) readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	code := http.StatusOK
	state := "ready"
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.WarnContext(ctx, "readiness check failed", "dependency", name, "error", err)
			results[name] = err.Error()
			code = http.StatusServiceUnavailable
			state = "not_ready"
			continue
		}
		results[name] = "ok"
	}

	writeJSON(w, code, map[string]any{
		"status":  state,
		"service": h.service,
		"checks":  results,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck
}
