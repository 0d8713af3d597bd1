package application

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/example/roda-da-vida/internal/persistence"
)

const maxLifeAreaNameLength = 100

var colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// LifeAreaService validates and persists life areas.
type LifeAreaService struct {
	areas  persistence.LifeAreaRepository
	now    func() time.Time
	logger *slog.Logger
}

// NewLifeAreaService constructs a life area service with the provided dependencies.
func NewLifeAreaService(areas persistence.LifeAreaRepository, now func() time.Time) *LifeAreaService {
	return NewLifeAreaServiceWithLogger(areas, now, nil)
}

// NewLifeAreaServiceWithLogger constructs a life area service with a specified logger.
func NewLifeAreaServiceWithLogger(areas persistence.LifeAreaRepository, now func() time.Time, logger *slog.Logger) *LifeAreaService {
	if now == nil {
		now = time.Now
	}
	return &LifeAreaService{areas: areas, now: now, logger: defaultLogger(logger)}
}

func (s *LifeAreaService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "LifeAreaService", operation, attrs...)
}

// CreateLifeArea validates input and persists a new active area.
func (s *LifeAreaService) CreateLifeArea(ctx context.Context, input LifeAreaInput) (area persistence.LifeArea, err error) {
	if s == nil || s.areas == nil {
		err = fmt.Errorf("life area repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateLifeArea")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create life area", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("area_id", area.ID).InfoContext(ctx, "life area created")
	}()

	vErr := validateLifeAreaInput(input)
	if err = vErr.orNil(); err != nil {
		return
	}

	now := s.now()
	area, err = s.areas.CreateLifeArea(ctx, persistence.LifeArea{
		Name:        strings.TrimSpace(input.Name),
		Description: normalizeOptionalString(input.Description),
		Color:       input.Color,
		Order:       input.Order,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		err = mapRepoError(err, "name")
		return
	}
	return
}

// ListLifeAreas returns areas by display order, optionally including archived ones.
func (s *LifeAreaService) ListLifeAreas(ctx context.Context, includeArchived bool) (areas []persistence.LifeArea, err error) {
	if s == nil || s.areas == nil {
		return nil, nil
	}

	logger := s.loggerWith(ctx, "ListLifeAreas", "include_archived", includeArchived)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list life areas", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(areas)).DebugContext(ctx, "life areas listed")
	}()

	areas, err = s.areas.ListLifeAreas(ctx, includeArchived)
	return
}

// GetLifeArea returns a single area, archived or not.
func (s *LifeAreaService) GetLifeArea(ctx context.Context, id int64) (persistence.LifeArea, error) {
	if s == nil || s.areas == nil {
		return persistence.LifeArea{}, fmt.Errorf("life area repository not configured")
	}
	area, err := s.areas.GetLifeArea(ctx, id)
	if err != nil {
		return persistence.LifeArea{}, mapRepoError(err, "")
	}
	return area, nil
}

// UpdateLifeArea validates input and replaces the editable fields of an area.
func (s *LifeAreaService) UpdateLifeArea(ctx context.Context, params UpdateLifeAreaParams) (area persistence.LifeArea, err error) {
	if s == nil || s.areas == nil {
		err = fmt.Errorf("life area repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateLifeArea", "area_id", params.AreaID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update life area", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "life area updated")
	}()

	var existing persistence.LifeArea
	existing, err = s.areas.GetLifeArea(ctx, params.AreaID)
	if err != nil {
		err = mapRepoError(err, "")
		return
	}

	vErr := validateLifeAreaInput(params.Input)
	if err = vErr.orNil(); err != nil {
		return
	}

	updated := existing
	updated.Name = strings.TrimSpace(params.Input.Name)
	updated.Description = normalizeOptionalString(params.Input.Description)
	updated.Color = params.Input.Color
	updated.Order = params.Input.Order
	updated.UpdatedAt = s.now()

	if err = s.areas.UpdateLifeArea(ctx, updated); err != nil {
		err = mapRepoError(err, "name")
		return
	}

	area = updated
	return
}

// DeleteLifeArea archives an area. Its scores and action items are kept.
func (s *LifeAreaService) DeleteLifeArea(ctx context.Context, id int64) error {
	if s == nil || s.areas == nil {
		return fmt.Errorf("life area repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteLifeArea", "area_id", id)

	if err := s.areas.SoftDeleteLifeArea(ctx, id, s.now()); err != nil {
		err = mapRepoError(err, "")
		logger.ErrorContext(ctx, "failed to archive life area", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "life area archived")
	return nil
}

// RestoreLifeArea reactivates an archived area unless its name is taken by an active one.
func (s *LifeAreaService) RestoreLifeArea(ctx context.Context, id int64) (area persistence.LifeArea, err error) {
	if s == nil || s.areas == nil {
		err = fmt.Errorf("life area repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "RestoreLifeArea", "area_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to restore life area", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "life area restored")
	}()

	if err = s.areas.RestoreLifeArea(ctx, id, s.now()); err != nil {
		err = mapRepoError(err, "")
		return
	}

	area, err = s.areas.GetLifeArea(ctx, id)
	if err != nil {
		err = mapRepoError(err, "")
	}
	return
}

func validateLifeAreaInput(input LifeAreaInput) *ValidationError {
	vErr := &ValidationError{}

	name := strings.TrimSpace(input.Name)
	switch {
	case name == "":
		vErr.add("name", "name is required")
	case utf8.RuneCountInString(name) > maxLifeAreaNameLength:
		vErr.add("name", fmt.Sprintf("name must be at most %d characters", maxLifeAreaNameLength))
	}
	if !colorPattern.MatchString(input.Color) {
		vErr.add("color", "color must be #RGB or #RRGGBB")
	}
	if input.Order < 0 {
		vErr.add("order", "order must not be negative")
	}

	return vErr
}

func normalizeOptionalString(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
