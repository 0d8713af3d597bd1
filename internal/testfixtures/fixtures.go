package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/roda-da-vida/internal/application"
	"github.com/example/roda-da-vida/internal/persistence"
)

var (
	areaCounter uint64
	itemCounter uint64
)

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// Legacy action_items shapes found in databases written by older releases.
const (
	// LegacyActionItemsDDL predates both archiving and manual ordering.
	LegacyActionItemsDDL = `CREATE TABLE action_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		area_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		FOREIGN KEY(area_id) REFERENCES life_areas(id)
	)`

	// ArchivableActionItemsDDL has archived_at but no position column.
	ArchivableActionItemsDDL = `CREATE TABLE action_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		area_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		archived_at INTEGER,
		FOREIGN KEY(area_id) REFERENCES life_areas(id)
	)`
)

// ----------------------------- Life area fixtures -----------------------------

// LifeAreaFixture represents a deterministic life area.
type LifeAreaFixture struct {
	Name        string
	Description *string
	Color       string
	Order       int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LifeAreaOption configures the generated life area fixture.
type LifeAreaOption func(*LifeAreaFixture)

// NewLifeAreaFixture returns a uniquely named active area with optional overrides.
func NewLifeAreaFixture(opts ...LifeAreaOption) LifeAreaFixture {
	idx := atomic.AddUint64(&areaCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := LifeAreaFixture{
		Name:      fmt.Sprintf("Area %03d", idx),
		Color:     "#336699",
		Order:     int(idx % 10),
		IsActive:  true,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithAreaName overrides the area name.
func WithAreaName(name string) LifeAreaOption {
	return func(f *LifeAreaFixture) {
		f.Name = name
	}
}

// WithAreaDescription sets the optional description.
func WithAreaDescription(description string) LifeAreaOption {
	return func(f *LifeAreaFixture) {
		f.Description = &description
	}
}

// WithAreaColor overrides the display colour.
func WithAreaColor(color string) LifeAreaOption {
	return func(f *LifeAreaFixture) {
		f.Color = color
	}
}

// WithAreaOrder overrides the display order.
func WithAreaOrder(order int) LifeAreaOption {
	return func(f *LifeAreaFixture) {
		f.Order = order
	}
}

// WithAreaTimestamps sets both timestamps.
func WithAreaTimestamps(created, updated time.Time) LifeAreaOption {
	return func(f *LifeAreaFixture) {
		f.CreatedAt = created
		f.UpdatedAt = updated
	}
}

// Archived marks the fixture inactive.
func Archived() LifeAreaOption {
	return func(f *LifeAreaFixture) {
		f.IsActive = false
	}
}

// Persistence converts the fixture into a storage model.
func (f LifeAreaFixture) Persistence() persistence.LifeArea {
	return persistence.LifeArea{
		Name:        f.Name,
		Description: copyStringPtr(f.Description),
		Color:       f.Color,
		Order:       f.Order,
		IsActive:    f.IsActive,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// Input converts the fixture into service input.
func (f LifeAreaFixture) Input() application.LifeAreaInput {
	return application.LifeAreaInput{
		Name:        f.Name,
		Description: copyStringPtr(f.Description),
		Color:       f.Color,
		Order:       f.Order,
	}
}

// ----------------------------- Action item fixtures -----------------------------

// ActionItemFixture represents a deterministic action item.
type ActionItemFixture struct {
	AreaID    int64
	Title     string
	CreatedAt time.Time
}

// ActionItemOption configures the generated action item fixture.
type ActionItemOption func(*ActionItemFixture)

// NewActionItemFixture returns an item for areaID with a unique title.
func NewActionItemFixture(areaID int64, opts ...ActionItemOption) ActionItemFixture {
	idx := atomic.AddUint64(&itemCounter, 1)
	fixture := ActionItemFixture{
		AreaID:    areaID,
		Title:     fmt.Sprintf("Item %03d", idx),
		CreatedAt: referenceTime.Add(time.Duration(idx) * time.Second),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithItemTitle overrides the item title.
func WithItemTitle(title string) ActionItemOption {
	return func(f *ActionItemFixture) {
		f.Title = title
	}
}

// WithItemCreatedAt overrides the creation time.
func WithItemCreatedAt(t time.Time) ActionItemOption {
	return func(f *ActionItemFixture) {
		f.CreatedAt = t
	}
}

// Persistence converts the fixture into a storage model.
func (f ActionItemFixture) Persistence() persistence.ActionItem {
	return persistence.ActionItem{
		AreaID:    f.AreaID,
		Title:     f.Title,
		CreatedAt: f.CreatedAt,
	}
}

// Params converts the fixture into service parameters.
func (f ActionItemFixture) Params() application.CreateActionItemParams {
	return application.CreateActionItemParams{AreaID: f.AreaID, Title: f.Title}
}

func copyStringPtr(src *string) *string {
	if src == nil {
		return nil
	}
	v := *src
	return &v
}
