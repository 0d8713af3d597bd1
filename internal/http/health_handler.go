package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store     pinger
	version   string
	responder responder
}

func NewHealthHandler(store pinger, version string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{store: store, version: version, responder: newResponder(defaultLogger(logger))}
}

// Health reports ok while the database answers a ping.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			h.responder.loggerFor(r.Context()).ErrorContext(r.Context(), "health check failed", "error", err)
			status, code = "unavailable", http.StatusServiceUnavailable
		}
	}

	h.responder.writeJSON(r.Context(), w, code, healthResponse{Status: status, Version: h.version})
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
