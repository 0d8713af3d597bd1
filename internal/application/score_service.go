package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/roda-da-vida/internal/persistence"
)

const (
	minScoreValue = 0
	maxScoreValue = 10
)

// ScoreService records and reads life area scores.
type ScoreService struct {
	scores persistence.ScoreRepository
	areas  persistence.LifeAreaRepository
	now    func() time.Time
	logger *slog.Logger
}

// NewScoreService constructs a score service with the provided dependencies.
func NewScoreService(scores persistence.ScoreRepository, areas persistence.LifeAreaRepository, now func() time.Time) *ScoreService {
	return NewScoreServiceWithLogger(scores, areas, now, nil)
}

// NewScoreServiceWithLogger constructs a score service with a specified logger.
func NewScoreServiceWithLogger(scores persistence.ScoreRepository, areas persistence.LifeAreaRepository, now func() time.Time, logger *slog.Logger) *ScoreService {
	if now == nil {
		now = time.Now
	}
	return &ScoreService{scores: scores, areas: areas, now: now, logger: defaultLogger(logger)}
}

func (s *ScoreService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ScoreService", operation, attrs...)
}

// RecordScore stores a 0-10 rating for an existing area.
func (s *ScoreService) RecordScore(ctx context.Context, params RecordScoreParams) (score persistence.Score, err error) {
	if s == nil || s.scores == nil {
		err = fmt.Errorf("score repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "RecordScore", "area_id", params.AreaID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to record score", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("score_id", score.ID, "value", score.Value).InfoContext(ctx, "score recorded")
	}()

	if params.Value < minScoreValue || params.Value > maxScoreValue {
		err = fieldError("value", fmt.Sprintf("value must be between %d and %d", minScoreValue, maxScoreValue))
		return
	}

	if s.areas != nil {
		if _, err = s.areas.GetLifeArea(ctx, params.AreaID); err != nil {
			err = mapRepoError(err, "")
			return
		}
	}

	score, err = s.scores.CreateScore(ctx, persistence.Score{
		AreaID:     params.AreaID,
		Value:      params.Value,
		RecordedAt: s.now(),
	})
	if err != nil {
		err = mapRepoError(err, "value")
	}
	return
}

// ListScores returns an area's history, newest first.
func (s *ScoreService) ListScores(ctx context.Context, areaID int64) ([]persistence.Score, error) {
	if s == nil || s.scores == nil {
		return nil, nil
	}
	scores, err := s.scores.ListScoresByArea(ctx, areaID)
	if err != nil {
		err = mapRepoError(err, "")
		s.loggerWith(ctx, "ListScores", "area_id", areaID).
			ErrorContext(ctx, "failed to list scores", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return scores, nil
}

// LatestScore returns the most recent score of an area, or nil when it has none.
func (s *ScoreService) LatestScore(ctx context.Context, areaID int64) (*persistence.Score, error) {
	if s == nil || s.scores == nil {
		return nil, nil
	}
	score, err := s.scores.LatestScore(ctx, areaID)
	if errors.Is(err, persistence.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		err = mapRepoError(err, "")
		s.loggerWith(ctx, "LatestScore", "area_id", areaID).
			ErrorContext(ctx, "failed to read latest score", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return &score, nil
}

// LatestScores returns one latest score per active area, in area display order.
func (s *ScoreService) LatestScores(ctx context.Context) ([]persistence.Score, error) {
	if s == nil || s.scores == nil {
		return nil, nil
	}
	scores, err := s.scores.LatestScoresForActiveAreas(ctx)
	if err != nil {
		s.loggerWith(ctx, "LatestScores").
			ErrorContext(ctx, "failed to read latest scores", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return scores, nil
}
