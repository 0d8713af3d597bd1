package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/example/roda-da-vida/internal/application"
	"github.com/example/roda-da-vida/internal/persistence"
)

type lifeAreaService interface {
	CreateLifeArea(ctx context.Context, input application.LifeAreaInput) (persistence.LifeArea, error)
	ListLifeAreas(ctx context.Context, includeArchived bool) ([]persistence.LifeArea, error)
	GetLifeArea(ctx context.Context, id int64) (persistence.LifeArea, error)
	UpdateLifeArea(ctx context.Context, params application.UpdateLifeAreaParams) (persistence.LifeArea, error)
	DeleteLifeArea(ctx context.Context, id int64) error
	RestoreLifeArea(ctx context.Context, id int64) (persistence.LifeArea, error)
}

type LifeAreaHandler struct {
	service   lifeAreaService
	responder responder
	logger    *slog.Logger
}

func NewLifeAreaHandler(service lifeAreaService, logger *slog.Logger) *LifeAreaHandler {
	base := defaultLogger(logger)
	return &LifeAreaHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *LifeAreaHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "LifeAreaHandler", operation, attrs...)
}

func (h *LifeAreaHandler) List(w http.ResponseWriter, r *http.Request) {
	includeArchived, _ := strconv.ParseBool(r.URL.Query().Get("include_archived"))

	areas, err := h.service.ListLifeAreas(r.Context(), includeArchived)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listLifeAreasResponse{Areas: toLifeAreaDTOs(areas)})
}

func (h *LifeAreaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req lifeAreaRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode life area request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	area, err := h.service.CreateLifeArea(r.Context(), req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, lifeAreaResponse{Area: toLifeAreaDTO(area)})
}

func (h *LifeAreaHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "areaID")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAreaID)
		return
	}

	area, err := h.service.GetLifeArea(r.Context(), id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, lifeAreaResponse{Area: toLifeAreaDTO(area)})
}

func (h *LifeAreaHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "areaID")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAreaID)
		return
	}

	var req lifeAreaRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log(r.Context(), "Update", "area_id", id, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode life area update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	area, err := h.service.UpdateLifeArea(r.Context(), application.UpdateLifeAreaParams{AreaID: id, Input: req.toInput()})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, lifeAreaResponse{Area: toLifeAreaDTO(area)})
}

func (h *LifeAreaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "areaID")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAreaID)
		return
	}

	if err := h.service.DeleteLifeArea(r.Context(), id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *LifeAreaHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "areaID")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAreaID)
		return
	}

	area, err := h.service.RestoreLifeArea(r.Context(), id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, lifeAreaResponse{Area: toLifeAreaDTO(area)})
}

type lifeAreaRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Color       string  `json:"color"`
	Order       int     `json:"order"`
}

func (r lifeAreaRequest) toInput() application.LifeAreaInput {
	return application.LifeAreaInput{
		Name:        r.Name,
		Description: r.Description,
		Color:       r.Color,
		Order:       r.Order,
	}
}

type lifeAreaResponse struct {
	Area lifeAreaDTO `json:"area"`
}

type listLifeAreasResponse struct {
	Areas []lifeAreaDTO `json:"areas"`
}

type lifeAreaDTO struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Color       string  `json:"color"`
	Order       int     `json:"order"`
	IsActive    bool    `json:"is_active"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func toLifeAreaDTO(area persistence.LifeArea) lifeAreaDTO {
	return lifeAreaDTO{
		ID:          area.ID,
		Name:        area.Name,
		Description: area.Description,
		Color:       area.Color,
		Order:       area.Order,
		IsActive:    area.IsActive,
		CreatedAt:   formatTime(area.CreatedAt),
		UpdatedAt:   formatTime(area.UpdatedAt),
	}
}

func toLifeAreaDTOs(areas []persistence.LifeArea) []lifeAreaDTO {
	out := make([]lifeAreaDTO, 0, len(areas))
	for _, area := range areas {
		out = append(out, toLifeAreaDTO(area))
	}
	return out
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
