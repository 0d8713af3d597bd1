package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/roda-da-vida/internal/persistence"
)

// ActionItemService manages the ordered list of action items.
type ActionItemService struct {
	items  persistence.ActionItemRepository
	now    func() time.Time
	logger *slog.Logger
}

// NewActionItemService constructs an action item service with the provided dependencies.
func NewActionItemService(items persistence.ActionItemRepository, now func() time.Time) *ActionItemService {
	return NewActionItemServiceWithLogger(items, now, nil)
}

// NewActionItemServiceWithLogger constructs an action item service with a specified logger.
func NewActionItemServiceWithLogger(items persistence.ActionItemRepository, now func() time.Time, logger *slog.Logger) *ActionItemService {
	if now == nil {
		now = time.Now
	}
	return &ActionItemService{items: items, now: now, logger: defaultLogger(logger)}
}

func (s *ActionItemService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ActionItemService", operation, attrs...)
}

// CreateActionItem appends an item to the end of the list.
func (s *ActionItemService) CreateActionItem(ctx context.Context, params CreateActionItemParams) (item persistence.ActionItem, err error) {
	if s == nil || s.items == nil {
		err = fmt.Errorf("action item repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateActionItem", "area_id", params.AreaID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create action item", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("item_id", item.ID, "position", item.Position).InfoContext(ctx, "action item created")
	}()

	title := strings.TrimSpace(params.Title)
	if title == "" {
		err = fieldError("title", "title is required")
		return
	}

	item, err = s.items.CreateActionItem(ctx, persistence.ActionItem{
		AreaID:    params.AreaID,
		Title:     title,
		CreatedAt: s.now(),
	})
	if err != nil {
		err = mapRepoError(err, "area_id")
	}
	return
}

// ListActionItems returns non-archived items in display order. A nil areaID lists all areas.
func (s *ActionItemService) ListActionItems(ctx context.Context, areaID *int64) (items []persistence.ActionItem, err error) {
	if s == nil || s.items == nil {
		return nil, nil
	}

	items, err = s.items.ListActionItems(ctx, persistence.ActionItemFilter{AreaID: areaID})
	if err != nil {
		s.loggerWith(ctx, "ListActionItems").
			ErrorContext(ctx, "failed to list action items", "error", err, "error_kind", ErrorKind(err))
	}
	return
}

// UpdateActionItemTitle renames an item and returns it.
func (s *ActionItemService) UpdateActionItemTitle(ctx context.Context, id int64, title string) (item persistence.ActionItem, err error) {
	if s == nil || s.items == nil {
		err = fmt.Errorf("action item repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateActionItemTitle", "item_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update action item", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "action item updated")
	}()

	title = strings.TrimSpace(title)
	if title == "" {
		err = fieldError("title", "title is required")
		return
	}

	if err = s.items.UpdateActionItemTitle(ctx, id, title); err != nil {
		err = mapRepoError(err, "title")
		return
	}

	item, err = s.items.GetActionItem(ctx, id)
	if err != nil {
		err = mapRepoError(err, "")
	}
	return
}

// ArchiveActionItem hides an item from listings without deleting it.
func (s *ActionItemService) ArchiveActionItem(ctx context.Context, id int64) error {
	if s == nil || s.items == nil {
		return fmt.Errorf("action item repository not configured")
	}

	logger := s.loggerWith(ctx, "ArchiveActionItem", "item_id", id)

	if err := s.items.ArchiveActionItem(ctx, id, s.now()); err != nil {
		err = mapRepoError(err, "")
		logger.ErrorContext(ctx, "failed to archive action item", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "action item archived")
	return nil
}

// DeleteActionItem removes an item permanently.
func (s *ActionItemService) DeleteActionItem(ctx context.Context, id int64) error {
	if s == nil || s.items == nil {
		return fmt.Errorf("action item repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteActionItem", "item_id", id)

	if err := s.items.DeleteActionItem(ctx, id); err != nil {
		err = mapRepoError(err, "")
		logger.ErrorContext(ctx, "failed to delete action item", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "action item deleted")
	return nil
}

// ReorderActionItems applies a batch of position changes atomically.
func (s *ActionItemService) ReorderActionItems(ctx context.Context, updates []persistence.PositionUpdate) (err error) {
	if s == nil || s.items == nil {
		return fmt.Errorf("action item repository not configured")
	}
	if len(updates) == 0 {
		return nil
	}

	logger := s.loggerWith(ctx, "ReorderActionItems", "update_count", len(updates))
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to reorder action items", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "action items reordered")
	}()

	vErr := &ValidationError{}
	seen := make(map[int64]struct{}, len(updates))
	for i, update := range updates {
		vErr.merge(validatePositionUpdate(i, update, seen))
	}
	if err = vErr.orNil(); err != nil {
		return
	}

	if err = s.items.ReorderActionItems(ctx, updates); err != nil {
		err = mapRepoError(err, "")
	}
	return
}

func validatePositionUpdate(index int, update persistence.PositionUpdate, seen map[int64]struct{}) *ValidationError {
	vErr := &ValidationError{}
	prefix := fmt.Sprintf("updates[%d]", index)

	if update.ID <= 0 {
		vErr.add(prefix+".id", "id must be positive")
	} else if _, dup := seen[update.ID]; dup {
		vErr.add(prefix+".id", "id appears more than once")
	}
	seen[update.ID] = struct{}{}

	if update.Position < 0 {
		vErr.add(prefix+".position", "position must not be negative")
	}
	return vErr
}
