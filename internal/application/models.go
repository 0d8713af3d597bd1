package application

import (
	"strings"

	"github.com/example/roda-da-vida/internal/persistence"
)

// LifeAreaInput captures caller provided life area fields.
type LifeAreaInput struct {
	Name        string
	Description *string
	Color       string
	Order       int
}

// UpdateLifeAreaParams wraps the data required to update a life area.
type UpdateLifeAreaParams struct {
	AreaID int64
	Input  LifeAreaInput
}

// RecordScoreParams wraps the data required to record a score.
type RecordScoreParams struct {
	AreaID int64
	Value  int
}

// CreateActionItemParams wraps the data required to create an action item.
type CreateActionItemParams struct {
	AreaID int64
	Title  string
}

// ParseResetScope converts the wire name of a reset scope. An empty string means all.
func ParseResetScope(value string) (persistence.ResetScope, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "all":
		return persistence.ResetScopeAll, nil
	case "scores":
		return persistence.ResetScopeScores, nil
	case "action_items":
		return persistence.ResetScopeActionItems, nil
	}
	return 0, fieldError("scope", "scope must be one of all, scores, action_items")
}
