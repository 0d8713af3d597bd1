package persistence

import (
	"context"
	"time"
)

// LifeAreaRepository stores life areas. Names are unique among active areas.
type LifeAreaRepository interface {
	CreateLifeArea(ctx context.Context, area LifeArea) (LifeArea, error)
	UpdateLifeArea(ctx context.Context, area LifeArea) error
	GetLifeArea(ctx context.Context, id int64) (LifeArea, error)
	ListLifeAreas(ctx context.Context, includeArchived bool) ([]LifeArea, error)
	SoftDeleteLifeArea(ctx context.Context, id int64, at time.Time) error
	RestoreLifeArea(ctx context.Context, id int64, at time.Time) error
}

// ScoreRepository stores score history.
type ScoreRepository interface {
	CreateScore(ctx context.Context, score Score) (Score, error)
	ListScoresByArea(ctx context.Context, areaID int64) ([]Score, error)
	LatestScore(ctx context.Context, areaID int64) (Score, error)
	LatestScoresForActiveAreas(ctx context.Context) ([]Score, error)
}

// ActionItemFilter narrows action item listings. A nil AreaID lists every area.
type ActionItemFilter struct {
	AreaID *int64
}

// ActionItemRepository stores action items. Listings only return non-archived items.
type ActionItemRepository interface {
	CreateActionItem(ctx context.Context, item ActionItem) (ActionItem, error)
	GetActionItem(ctx context.Context, id int64) (ActionItem, error)
	ListActionItems(ctx context.Context, filter ActionItemFilter) ([]ActionItem, error)
	UpdateActionItemTitle(ctx context.Context, id int64, title string) error
	ArchiveActionItem(ctx context.Context, id int64, at time.Time) error
	DeleteActionItem(ctx context.Context, id int64) error
	ReorderActionItems(ctx context.Context, updates []PositionUpdate) error
}

// ResetRepository wipes user data.
type ResetRepository interface {
	ResetArea(ctx context.Context, areaID int64, scope ResetScope) error
	ResetAll(ctx context.Context) error
}
