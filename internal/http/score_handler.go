package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/roda-da-vida/internal/application"
	"github.com/example/roda-da-vida/internal/persistence"
)

type scoreService interface {
	RecordScore(ctx context.Context, params application.RecordScoreParams) (persistence.Score, error)
	ListScores(ctx context.Context, areaID int64) ([]persistence.Score, error)
	LatestScore(ctx context.Context, areaID int64) (*persistence.Score, error)
	LatestScores(ctx context.Context) ([]persistence.Score, error)
}

type ScoreHandler struct {
	service   scoreService
	responder responder
	logger    *slog.Logger
}

func NewScoreHandler(service scoreService, logger *slog.Logger) *ScoreHandler {
	base := defaultLogger(logger)
	return &ScoreHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ScoreHandler) Record(w http.ResponseWriter, r *http.Request) {
	areaID, ok := pathID(r, "areaID")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAreaID)
		return
	}

	var req scoreRequest
	if err := decodeJSON(r, &req); err != nil {
		handlerLogger(r.Context(), h.logger, "ScoreHandler", "Record", "area_id", areaID, "error_kind", "bad_request").
			WarnContext(r.Context(), "failed to decode score request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	if req.Value == nil {
		h.responder.writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: errorBody{
			Code:    codeValidation,
			Message: statusMessage(http.StatusUnprocessableEntity),
			Fields:  map[string]string{"value": "value is required"},
		}})
		return
	}

	score, err := h.service.RecordScore(r.Context(), application.RecordScoreParams{AreaID: areaID, Value: *req.Value})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, scoreResponse{Score: toScoreDTO(score)})
}

func (h *ScoreHandler) ListByArea(w http.ResponseWriter, r *http.Request) {
	areaID, ok := pathID(r, "areaID")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAreaID)
		return
	}

	scores, err := h.service.ListScores(r.Context(), areaID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listScoresResponse{Scores: toScoreDTOs(scores)})
}

// LatestByArea answers 204 when the area has no scores yet.
func (h *ScoreHandler) LatestByArea(w http.ResponseWriter, r *http.Request) {
	areaID, ok := pathID(r, "areaID")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAreaID)
		return
	}

	score, err := h.service.LatestScore(r.Context(), areaID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if score == nil {
		h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, scoreResponse{Score: toScoreDTO(*score)})
}

func (h *ScoreHandler) LatestForActiveAreas(w http.ResponseWriter, r *http.Request) {
	scores, err := h.service.LatestScores(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listScoresResponse{Scores: toScoreDTOs(scores)})
}

type scoreRequest struct {
	Value *int `json:"value"`
}

type scoreResponse struct {
	Score scoreDTO `json:"score"`
}

type listScoresResponse struct {
	Scores []scoreDTO `json:"scores"`
}

type scoreDTO struct {
	ID         int64  `json:"id"`
	AreaID     int64  `json:"area_id"`
	Value      int    `json:"value"`
	RecordedAt string `json:"recorded_at"`
}

func toScoreDTO(score persistence.Score) scoreDTO {
	return scoreDTO{
		ID:         score.ID,
		AreaID:     score.AreaID,
		Value:      score.Value,
		RecordedAt: formatTime(score.RecordedAt),
	}
}

func toScoreDTOs(scores []persistence.Score) []scoreDTO {
	out := make([]scoreDTO, 0, len(scores))
	for _, score := range scores {
		out = append(out, toScoreDTO(score))
	}
	return out
}
