package persistence

import "time"

// LifeArea is a named, coloured category the user scores and tracks action items against.
type LifeArea struct {
	ID          int64
	Name        string
	Description *string
	Color       string
	Order       int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Score is a single 0-10 rating of a life area at a point in time.
type Score struct {
	ID         int64
	AreaID     int64
	Value      int
	RecordedAt time.Time
}

// ActionItem is a task attached to a life area. ArchivedAt is nil while the item is active.
type ActionItem struct {
	ID         int64
	AreaID     int64
	Title      string
	CreatedAt  time.Time
	Position   int64
	ArchivedAt *time.Time
}

// PositionUpdate moves one action item to a new display position.
type PositionUpdate struct {
	ID       int64
	Position int64
}

// ResetScope selects which per-area data a reset removes.
type ResetScope int

const (
	// ResetScopeAll removes scores and action items.
	ResetScopeAll ResetScope = iota
	// ResetScopeScores removes scores only.
	ResetScopeScores
	// ResetScopeActionItems removes action items only.
	ResetScopeActionItems
)

// String returns the wire name of the scope.
func (s ResetScope) String() string {
	switch s {
	case ResetScopeScores:
		return "scores"
	case ResetScopeActionItems:
		return "action_items"
	default:
		return "all"
	}
}
