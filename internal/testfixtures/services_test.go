package testfixtures

import (
	"context"
	"testing"
	"time"

	"github.com/example/roda-da-vida/internal/application"
	"github.com/example/roda-da-vida/internal/persistence"
	"github.com/example/roda-da-vida/internal/persistence/sqlite/migration"
)

func TestServiceFactoryNewServices(t *testing.T) {
	clock := NewClock(time.Time{})
	factory := NewServiceFactory(WithClock(clock))
	harness := NewSQLiteHarness(t)
	services := factory.NewServices(harness)
	ctx := context.Background()

	area, err := services.LifeAreas.CreateLifeArea(ctx, NewLifeAreaFixture(WithAreaName("Health")).Input())
	if err != nil {
		t.Fatalf("CreateLifeArea returned error: %v", err)
	}
	if !area.CreatedAt.Equal(ReferenceTime()) {
		t.Fatalf("expected clock time %v, got %v", ReferenceTime(), area.CreatedAt)
	}

	clock.Advance(time.Hour)
	score, err := services.Scores.RecordScore(ctx, application.RecordScoreParams{AreaID: area.ID, Value: 7})
	if err != nil {
		t.Fatalf("RecordScore returned error: %v", err)
	}
	if !score.RecordedAt.Equal(ReferenceTime().Add(time.Hour)) {
		t.Fatalf("expected advanced clock time, got %v", score.RecordedAt)
	}

	item, err := services.ActionItems.CreateActionItem(ctx, NewActionItemFixture(area.ID).Params())
	if err != nil {
		t.Fatalf("CreateActionItem returned error: %v", err)
	}
	if item.Position != 0 {
		t.Fatalf("expected first item at position 0, got %d", item.Position)
	}
}

func TestSQLiteHarnessWithSeedMigratesLegacyShape(t *testing.T) {
	harness := NewSQLiteHarnessWithSeed(t,
		migration.LifeAreasTable.CreateSQL(true),
		`INSERT INTO life_areas (id, name, color, "order", created_at, updated_at) VALUES (1, 'Health', '#0f0', 0, 1, 1)`,
		LegacyActionItemsDDL,
		`INSERT INTO action_items (area_id, title, created_at) VALUES (1, 'walk', 20), (1, 'stretch', 10)`,
	)

	items, err := harness.ActionItems.ListActionItems(context.Background(), persistence.ActionItemFilter{})
	if err != nil {
		t.Fatalf("ListActionItems returned error: %v", err)
	}
	if len(items) != 2 || items[0].Title != "stretch" || items[0].Position != 0 || items[1].Position != 1 {
		t.Fatalf("expected created_at ordered positions, got %+v", items)
	}
	if !harness.Store.Report().Migrated() {
		t.Fatalf("expected the seeded table to be migrated")
	}
}
