package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/roda-da-vida/internal/persistence"
)

// ResetService wipes tracked data for one area or for everything.
type ResetService struct {
	resets persistence.ResetRepository
	logger *slog.Logger
}

// NewResetService constructs a reset service.
func NewResetService(resets persistence.ResetRepository) *ResetService {
	return NewResetServiceWithLogger(resets, nil)
}

// NewResetServiceWithLogger constructs a reset service with a specified logger.
func NewResetServiceWithLogger(resets persistence.ResetRepository, logger *slog.Logger) *ResetService {
	return &ResetService{resets: resets, logger: defaultLogger(logger)}
}

// ResetArea deletes an area's scores, action items or both. The area itself is kept.
func (s *ResetService) ResetArea(ctx context.Context, areaID int64, scope persistence.ResetScope) error {
	if s == nil || s.resets == nil {
		return fmt.Errorf("reset repository not configured")
	}

	logger := serviceLogger(ctx, s.logger, "ResetService", "ResetArea", "area_id", areaID, "scope", scope.String())

	if err := s.resets.ResetArea(ctx, areaID, scope); err != nil {
		err = mapRepoError(err, "scope")
		logger.ErrorContext(ctx, "failed to reset area", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.WarnContext(ctx, "area reset")
	return nil
}

// ResetAll deletes every score, action item and life area.
func (s *ResetService) ResetAll(ctx context.Context) error {
	if s == nil || s.resets == nil {
		return fmt.Errorf("reset repository not configured")
	}

	logger := serviceLogger(ctx, s.logger, "ResetService", "ResetAll")

	if err := s.resets.ResetAll(ctx); err != nil {
		logger.ErrorContext(ctx, "failed to reset all data", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.WarnContext(ctx, "all data reset")
	return nil
}
