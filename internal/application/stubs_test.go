package application

import (
	"context"
	"time"

	"github.com/example/roda-da-vida/internal/persistence"
)

var referenceTime = time.Date(2024, time.March, 4, 9, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return referenceTime }

type lifeAreaRepoStub struct {
	areas map[int64]persistence.LifeArea
	next  int64

	createErr  error
	updateErr  error
	deleteErr  error
	restoreErr error
	listErr    error

	created  persistence.LifeArea
	updated  persistence.LifeArea
	deleted  int64
	deleteAt time.Time
}

func newLifeAreaRepoStub(areas ...persistence.LifeArea) *lifeAreaRepoStub {
	stub := &lifeAreaRepoStub{areas: make(map[int64]persistence.LifeArea)}
	for _, area := range areas {
		stub.areas[area.ID] = area
		if area.ID > stub.next {
			stub.next = area.ID
		}
	}
	return stub
}

func (r *lifeAreaRepoStub) CreateLifeArea(ctx context.Context, area persistence.LifeArea) (persistence.LifeArea, error) {
	if r.createErr != nil {
		return persistence.LifeArea{}, r.createErr
	}
	r.next++
	area.ID = r.next
	r.areas[area.ID] = area
	r.created = area
	return area, nil
}

func (r *lifeAreaRepoStub) UpdateLifeArea(ctx context.Context, area persistence.LifeArea) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.areas[area.ID] = area
	r.updated = area
	return nil
}

func (r *lifeAreaRepoStub) GetLifeArea(ctx context.Context, id int64) (persistence.LifeArea, error) {
	area, ok := r.areas[id]
	if !ok {
		return persistence.LifeArea{}, persistence.ErrNotFound
	}
	return area, nil
}

func (r *lifeAreaRepoStub) ListLifeAreas(ctx context.Context, includeArchived bool) ([]persistence.LifeArea, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []persistence.LifeArea
	for _, area := range r.areas {
		if area.IsActive || includeArchived {
			out = append(out, area)
		}
	}
	return out, nil
}

func (r *lifeAreaRepoStub) SoftDeleteLifeArea(ctx context.Context, id int64, at time.Time) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	area, ok := r.areas[id]
	if !ok {
		return persistence.ErrNotFound
	}
	area.IsActive = false
	area.UpdatedAt = at
	r.areas[id] = area
	r.deleted = id
	r.deleteAt = at
	return nil
}

func (r *lifeAreaRepoStub) RestoreLifeArea(ctx context.Context, id int64, at time.Time) error {
	if r.restoreErr != nil {
		return r.restoreErr
	}
	area, ok := r.areas[id]
	if !ok {
		return persistence.ErrNotFound
	}
	area.IsActive = true
	area.UpdatedAt = at
	r.areas[id] = area
	return nil
}

type scoreRepoStub struct {
	scores    []persistence.Score
	createErr error
	latestErr error
}

func (r *scoreRepoStub) CreateScore(ctx context.Context, score persistence.Score) (persistence.Score, error) {
	if r.createErr != nil {
		return persistence.Score{}, r.createErr
	}
	score.ID = int64(len(r.scores) + 1)
	r.scores = append(r.scores, score)
	return score, nil
}

func (r *scoreRepoStub) ListScoresByArea(ctx context.Context, areaID int64) ([]persistence.Score, error) {
	var out []persistence.Score
	for i := len(r.scores) - 1; i >= 0; i-- {
		if r.scores[i].AreaID == areaID {
			out = append(out, r.scores[i])
		}
	}
	return out, nil
}

func (r *scoreRepoStub) LatestScore(ctx context.Context, areaID int64) (persistence.Score, error) {
	if r.latestErr != nil {
		return persistence.Score{}, r.latestErr
	}
	scores, _ := r.ListScoresByArea(ctx, areaID)
	if len(scores) == 0 {
		return persistence.Score{}, persistence.ErrNotFound
	}
	return scores[0], nil
}

func (r *scoreRepoStub) LatestScoresForActiveAreas(ctx context.Context) ([]persistence.Score, error) {
	return nil, nil
}

type actionItemRepoStub struct {
	items      map[int64]persistence.ActionItem
	next       int64
	createErr  error
	reorderErr error

	filter    persistence.ActionItemFilter
	archived  int64
	archiveAt time.Time
	deleted   int64
	reordered []persistence.PositionUpdate
}

func newActionItemRepoStub() *actionItemRepoStub {
	return &actionItemRepoStub{items: make(map[int64]persistence.ActionItem)}
}

func (r *actionItemRepoStub) CreateActionItem(ctx context.Context, item persistence.ActionItem) (persistence.ActionItem, error) {
	if r.createErr != nil {
		return persistence.ActionItem{}, r.createErr
	}
	item.Position = int64(len(r.items))
	r.next++
	item.ID = r.next
	r.items[item.ID] = item
	return item, nil
}

func (r *actionItemRepoStub) GetActionItem(ctx context.Context, id int64) (persistence.ActionItem, error) {
	item, ok := r.items[id]
	if !ok {
		return persistence.ActionItem{}, persistence.ErrNotFound
	}
	return item, nil
}

func (r *actionItemRepoStub) ListActionItems(ctx context.Context, filter persistence.ActionItemFilter) ([]persistence.ActionItem, error) {
	r.filter = filter
	return nil, nil
}

func (r *actionItemRepoStub) UpdateActionItemTitle(ctx context.Context, id int64, title string) error {
	item, ok := r.items[id]
	if !ok {
		return persistence.ErrNotFound
	}
	item.Title = title
	r.items[id] = item
	return nil
}

func (r *actionItemRepoStub) ArchiveActionItem(ctx context.Context, id int64, at time.Time) error {
	if _, ok := r.items[id]; !ok {
		return persistence.ErrNotFound
	}
	r.archived = id
	r.archiveAt = at
	return nil
}

func (r *actionItemRepoStub) DeleteActionItem(ctx context.Context, id int64) error {
	if _, ok := r.items[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.items, id)
	r.deleted = id
	return nil
}

func (r *actionItemRepoStub) ReorderActionItems(ctx context.Context, updates []persistence.PositionUpdate) error {
	if r.reorderErr != nil {
		return r.reorderErr
	}
	r.reordered = append([]persistence.PositionUpdate(nil), updates...)
	return nil
}

type resetRepoStub struct {
	areaID  int64
	scope   persistence.ResetScope
	all     bool
	areaErr error
}

func (r *resetRepoStub) ResetArea(ctx context.Context, areaID int64, scope persistence.ResetScope) error {
	if r.areaErr != nil {
		return r.areaErr
	}
	r.areaID = areaID
	r.scope = scope
	return nil
}

func (r *resetRepoStub) ResetAll(ctx context.Context) error {
	r.all = true
	return nil
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }
