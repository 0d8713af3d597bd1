package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/roda-da-vida/internal/persistence"
)

// ResetRepository implements persistence.ResetRepository using SQLite
type ResetRepository struct {
	store  *Store
	mapper *ErrorMapper
}

// NewResetRepository creates a new SQLite reset repository
func NewResetRepository(store *Store) *ResetRepository {
	return &ResetRepository{
		store:  store,
		mapper: NewErrorMapper(),
	}
}

// ResetArea deletes an area's scores and/or action items. The area itself is kept.
func (r *ResetRepository) ResetArea(ctx context.Context, areaID int64, scope persistence.ResetScope) error {
	var statements []string
	switch scope {
	case persistence.ResetScopeAll:
		statements = []string{
			`DELETE FROM scores WHERE area_id = ?`,
			`DELETE FROM action_items WHERE area_id = ?`,
		}
	case persistence.ResetScopeScores:
		statements = []string{`DELETE FROM scores WHERE area_id = ?`}
	case persistence.ResetScopeActionItems:
		statements = []string{`DELETE FROM action_items WHERE area_id = ?`}
	default:
		return fmt.Errorf("%w: unknown reset scope %d", persistence.ErrConstraintViolation, scope)
	}

	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getLifeArea(ctx, tx, areaID); err != nil {
			return r.mapper.MapError(err)
		}
		for _, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt, areaID); err != nil {
				return r.mapper.MapError(err)
			}
		}
		return nil
	})
}

// ResetAll deletes every score, action item and life area. Children go first so foreign
// keys hold throughout.
func (r *ResetRepository) ResetAll(ctx context.Context) error {
	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM scores`,
			`DELETE FROM action_items`,
			`DELETE FROM life_areas`,
		} {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return r.mapper.MapError(err)
			}
		}
		return nil
	})
}
