package migration

// Schema is the full set of tables and indexes the initializer owns.
type Schema struct {
	Tables  []TableSpec
	Indexes []IndexSpec
}

// LifeAreasTable stores the tracked categories. The UNIQUE clause keeps at most one active
// and one archived area per name.
var LifeAreasTable = TableSpec{
	Name: "life_areas",
	Definition: `(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT,
		color TEXT NOT NULL,
		"order" INTEGER NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		UNIQUE(name, is_active) ON CONFLICT IGNORE
	)`,
	Columns: []Column{
		{Name: "id"}, {Name: "name"}, {Name: "description"}, {Name: "color"},
		{Name: "order"}, {Name: "is_active"}, {Name: "created_at"}, {Name: "updated_at"},
	},
}

// ScoresTable stores 0-10 ratings of a life area over time.
var ScoresTable = TableSpec{
	Name: "scores",
	Definition: `(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		area_id INTEGER NOT NULL,
		value INTEGER NOT NULL CHECK(value >= 0 AND value <= 10),
		recorded_at INTEGER NOT NULL,
		FOREIGN KEY(area_id) REFERENCES life_areas(id)
	)`,
	Columns: []Column{
		{Name: "id"}, {Name: "area_id"}, {Name: "value"}, {Name: "recorded_at"},
	},
}

// ActionItemsTable is the evolving table. Older shapes lack position and/or archived_at.
var ActionItemsTable = TableSpec{
	Name: "action_items",
	Definition: `(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		area_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		archived_at INTEGER,
		FOREIGN KEY(area_id) REFERENCES life_areas(id)
	)`,
	Columns: []Column{
		{Name: "id"},
		{Name: "area_id"},
		{Name: "title"},
		{Name: "created_at"},
		{Name: "position", Optional: true, Backfill: func() Backfill { return NewPositionSequence() }},
		{Name: "archived_at", Optional: true, Backfill: KeepOrNull},
	},
	CopyOrder: []string{"position", "created_at", "id"},
	Evolving:  true,
}

// DefaultSchema returns the application schema.
func DefaultSchema() Schema {
	return Schema{
		Tables: []TableSpec{LifeAreasTable, ScoresTable, ActionItemsTable},
		Indexes: []IndexSpec{
			{Name: "idx_scores_area_id", Table: "scores", Columns: []string{"area_id"}},
			{Name: "idx_scores_recorded_at", Table: "scores", Columns: []string{"recorded_at"}},
			{Name: "idx_action_items_area_id", Table: "action_items", Columns: []string{"area_id"}},
			{Name: "idx_action_items_position", Table: "action_items", Columns: []string{"position"}},
			{Name: "idx_action_items_archived", Table: "action_items", Columns: []string{"archived_at"}},
		},
	}
}
