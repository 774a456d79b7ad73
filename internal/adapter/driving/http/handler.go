// Package httphandler serves the operational endpoints (health and metrics)
// and provides the middleware shared by every route.
package httphandler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger checks that a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to the Pinger interface.
type PingFunc func(ctx context.Context) error

// Ping calls f.
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Handler is the HTTP driving adapter for operational endpoints.
type Handler struct {
	storage        Pinger
	sessionBackend string
	apiBase        string
	logger         *slog.Logger
}

// NewHandler creates a Handler. storage may be nil when there is nothing to ping.
func NewHandler(storage Pinger, sessionBackend, apiBase string, logger *slog.Logger) *Handler {
	return &Handler{
		storage:        storage,
		sessionBackend: sessionBackend,
		apiBase:        apiBase,
		logger:         logger,
	}
}

// RegisterAPIRoutes registers the operational routes on mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /healthz", h.Health)
	mux.Handle("GET /metrics", promhttp.Handler())
}

// Health reports liveness and whether session storage is reachable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:         "ok",
		Time:           time.Now().UTC().Format(time.RFC3339),
		SessionBackend: h.sessionBackend,
		APIBase:        h.apiBase,
		Storage:        "ok",
	}

	if h.storage != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.storage.Ping(ctx); err != nil {
			h.logger.Warn("session storage unreachable", "error", err)
			resp.Status = "degraded"
			resp.Storage = "unreachable"
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
