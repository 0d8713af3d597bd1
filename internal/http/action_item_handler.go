package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/roda-da-vida/internal/application"
	"github.com/example/roda-da-vida/internal/persistence"
)

type actionItemService interface {
	CreateActionItem(ctx context.Context, params application.CreateActionItemParams) (persistence.ActionItem, error)
	ListActionItems(ctx context.Context, areaID *int64) ([]persistence.ActionItem, error)
	UpdateActionItemTitle(ctx context.Context, id int64, title string) (persistence.ActionItem, error)
	ArchiveActionItem(ctx context.Context, id int64) error
	DeleteActionItem(ctx context.Context, id int64) error
	ReorderActionItems(ctx context.Context, updates []persistence.PositionUpdate) error
}

type ActionItemHandler struct {
	service   actionItemService
	responder responder
	logger    *slog.Logger
}

func NewActionItemHandler(service actionItemService, logger *slog.Logger) *ActionItemHandler {
	base := defaultLogger(logger)
	return &ActionItemHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ActionItemHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "ActionItemHandler", operation, attrs...)
}

func (h *ActionItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	areaID, ok := pathID(r, "areaID")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAreaID)
		return
	}

	var req actionItemRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log(r.Context(), "Create", "area_id", areaID, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode action item request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	item, err := h.service.CreateActionItem(r.Context(), application.CreateActionItemParams{AreaID: areaID, Title: req.Title})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, actionItemResponse{Item: toActionItemDTO(item)})
}

func (h *ActionItemHandler) ListByArea(w http.ResponseWriter, r *http.Request) {
	areaID, ok := pathID(r, "areaID")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAreaID)
		return
	}
	h.list(w, r, &areaID)
}

// List serves /api/action-items with an optional area_id query filter.
func (h *ActionItemHandler) List(w http.ResponseWriter, r *http.Request) {
	var areaID *int64
	if raw := strings.TrimSpace(r.URL.Query().Get("area_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAreaID)
			return
		}
		areaID = &id
	}
	h.list(w, r, areaID)
}

func (h *ActionItemHandler) list(w http.ResponseWriter, r *http.Request, areaID *int64) {
	items, err := h.service.ListActionItems(r.Context(), areaID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listActionItemsResponse{Items: toActionItemDTOs(items)})
}

func (h *ActionItemHandler) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "itemID")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidItemID)
		return
	}

	var req actionItemRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log(r.Context(), "UpdateTitle", "item_id", id, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode action item update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	item, err := h.service.UpdateActionItemTitle(r.Context(), id, req.Title)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, actionItemResponse{Item: toActionItemDTO(item)})
}

func (h *ActionItemHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.service.ArchiveActionItem)
}

func (h *ActionItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.service.DeleteActionItem)
}

func (h *ActionItemHandler) mutate(w http.ResponseWriter, r *http.Request, fn func(context.Context, int64) error) {
	id, ok := pathID(r, "itemID")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidItemID)
		return
	}

	if err := fn(r.Context(), id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *ActionItemHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req []positionUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log(r.Context(), "Reorder", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode reorder request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errors.New("body must be an array of {id, position}"))
		return
	}

	updates := make([]persistence.PositionUpdate, 0, len(req))
	for _, u := range req {
		updates = append(updates, persistence.PositionUpdate{ID: u.ID, Position: u.Position})
	}

	if err := h.service.ReorderActionItems(r.Context(), updates); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type actionItemRequest struct {
	Title string `json:"title"`
}

type positionUpdateRequest struct {
	ID       int64 `json:"id"`
	Position int64 `json:"position"`
}

type actionItemResponse struct {
	Item actionItemDTO `json:"item"`
}

type listActionItemsResponse struct {
	Items []actionItemDTO `json:"items"`
}

type actionItemDTO struct {
	ID         int64   `json:"id"`
	AreaID     int64   `json:"area_id"`
	Title      string  `json:"title"`
	Position   int64   `json:"position"`
	CreatedAt  string  `json:"created_at"`
	ArchivedAt *string `json:"archived_at,omitempty"`
}

func toActionItemDTO(item persistence.ActionItem) actionItemDTO {
	dto := actionItemDTO{
		ID:        item.ID,
		AreaID:    item.AreaID,
		Title:     item.Title,
		Position:  item.Position,
		CreatedAt: formatTime(item.CreatedAt),
	}
	if item.ArchivedAt != nil {
		archived := formatTime(*item.ArchivedAt)
		dto.ArchivedAt = &archived
	}
	return dto
}

func toActionItemDTOs(items []persistence.ActionItem) []actionItemDTO {
	out := make([]actionItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toActionItemDTO(item))
	}
	return out
}
