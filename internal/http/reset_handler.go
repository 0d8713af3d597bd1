package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/roda-da-vida/internal/application"
	"github.com/example/roda-da-vida/internal/persistence"
)

type resetService interface {
	ResetArea(ctx context.Context, areaID int64, scope persistence.ResetScope) error
	ResetAll(ctx context.Context) error
}

type ResetHandler struct {
	service   resetService
	responder responder
}

func NewResetHandler(service resetService, logger *slog.Logger) *ResetHandler {
	return &ResetHandler{service: service, responder: newResponder(defaultLogger(logger))}
}

func (h *ResetHandler) ResetArea(w http.ResponseWriter, r *http.Request) {
	areaID, ok := pathID(r, "areaID")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAreaID)
		return
	}

	scope, err := application.ParseResetScope(r.URL.Query().Get("scope"))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	if err := h.service.ResetArea(r.Context(), areaID, scope); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *ResetHandler) ResetAll(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ResetAll(r.Context()); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}
