package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/roda-da-vida/internal/persistence"
)

const selectLifeArea = `
	SELECT id, name, description, color, "order", is_active, created_at, updated_at
	FROM life_areas
`

// LifeAreaRepository implements persistence.LifeAreaRepository using SQLite
type LifeAreaRepository struct {
	store  *Store
	mapper *ErrorMapper
}

// NewLifeAreaRepository creates a new SQLite life area repository
func NewLifeAreaRepository(store *Store) *LifeAreaRepository {
	return &LifeAreaRepository{
		store:  store,
		mapper: NewErrorMapper(),
	}
}

// CreateLifeArea inserts an active area. A name already used by an active area is a duplicate.
func (r *LifeAreaRepository) CreateLifeArea(ctx context.Context, area persistence.LifeArea) (persistence.LifeArea, error) {
	err := r.store.withTx(ctx, func(tx *sql.Tx) error {
		taken, err := activeNameTaken(ctx, tx, area.Name, 0)
		if err != nil {
			return r.mapper.MapError(err)
		}
		if taken {
			return persistence.ErrDuplicate
		}

		result, err := tx.ExecContext(ctx, `
			INSERT INTO life_areas (name, description, color, "order", is_active, created_at, updated_at)
			VALUES (?, ?, ?, ?, 1, ?, ?)
		`,
			area.Name,
			area.Description,
			area.Color,
			area.Order,
			toUnix(area.CreatedAt),
			toUnix(area.UpdatedAt),
		)
		if err != nil {
			return r.mapper.MapError(err)
		}

		// ON CONFLICT IGNORE turns a collision into a silent no-op
		n, err := rowsAffected(result)
		if err != nil {
			return err
		}
		if n == 0 {
			return persistence.ErrDuplicate
		}

		area.ID, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read inserted id: %w", err)
		}
		area.IsActive = true
		return nil
	})
	if err != nil {
		return persistence.LifeArea{}, err
	}
	return area, nil
}

// UpdateLifeArea replaces the editable fields of an area.
func (r *LifeAreaRepository) UpdateLifeArea(ctx context.Context, area persistence.LifeArea) error {
	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		current, err := getLifeArea(ctx, tx, area.ID)
		if err != nil {
			return r.mapper.MapError(err)
		}

		if current.IsActive {
			taken, err := activeNameTaken(ctx, tx, area.Name, area.ID)
			if err != nil {
				return r.mapper.MapError(err)
			}
			if taken {
				return persistence.ErrDuplicate
			}
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE life_areas
			SET name = ?, description = ?, color = ?, "order" = ?, updated_at = ?
			WHERE id = ?
		`,
			area.Name,
			area.Description,
			area.Color,
			area.Order,
			toUnix(area.UpdatedAt),
			area.ID,
		)
		if err != nil {
			return r.mapper.MapError(err)
		}

		n, err := rowsAffected(result)
		if err != nil {
			return err
		}
		if n == 0 {
			return persistence.ErrDuplicate
		}
		return nil
	})
}

// GetLifeArea retrieves an area by ID, active or not.
func (r *LifeAreaRepository) GetLifeArea(ctx context.Context, id int64) (persistence.LifeArea, error) {
	var area persistence.LifeArea
	err := r.store.withConn(ctx, func(conn *sql.Conn) error {
		var err error
		area, err = getLifeArea(ctx, conn, id)
		return r.mapper.MapError(err)
	})
	return area, err
}

// ListLifeAreas returns areas ordered by display order then name.
func (r *LifeAreaRepository) ListLifeAreas(ctx context.Context, includeArchived bool) ([]persistence.LifeArea, error) {
	query := selectLifeArea
	if !includeArchived {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY "order" ASC, name ASC, id ASC`

	var areas []persistence.LifeArea
	err := r.store.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query)
		if err != nil {
			return r.mapper.MapError(err)
		}
		defer rows.Close()

		for rows.Next() {
			area, err := scanLifeArea(rows)
			if err != nil {
				return r.mapper.MapError(err)
			}
			areas = append(areas, area)
		}
		return r.mapper.MapError(rows.Err())
	})
	if err != nil {
		return nil, err
	}
	return areas, nil
}

// SoftDeleteLifeArea marks an area inactive. Deleting an inactive area is a no-op.
// When an inactive area with the same name already exists the unique constraint would
// swallow the update, so that case is reported as a duplicate.
func (r *LifeAreaRepository) SoftDeleteLifeArea(ctx context.Context, id int64, at time.Time) error {
	return r.setActive(ctx, id, false, at)
}

// RestoreLifeArea marks an area active again unless an active area already uses its name.
func (r *LifeAreaRepository) RestoreLifeArea(ctx context.Context, id int64, at time.Time) error {
	return r.setActive(ctx, id, true, at)
}

func (r *LifeAreaRepository) setActive(ctx context.Context, id int64, active bool, at time.Time) error {
	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		current, err := getLifeArea(ctx, tx, id)
		if err != nil {
			return r.mapper.MapError(err)
		}
		if current.IsActive == active {
			return nil
		}

		if active {
			taken, err := activeNameTaken(ctx, tx, current.Name, id)
			if err != nil {
				return r.mapper.MapError(err)
			}
			if taken {
				return persistence.ErrDuplicate
			}
		}

		result, err := tx.ExecContext(ctx,
			`UPDATE life_areas SET is_active = ?, updated_at = ? WHERE id = ?`,
			boolToInt(active), toUnix(at), id,
		)
		if err != nil {
			return r.mapper.MapError(err)
		}

		n, err := rowsAffected(result)
		if err != nil {
			return err
		}
		if n == 0 {
			return persistence.ErrDuplicate
		}
		return nil
	})
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

func getLifeArea(ctx context.Context, q rowQuerier, id int64) (persistence.LifeArea, error) {
	area, err := scanLifeArea(q.QueryRowContext(ctx, selectLifeArea+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.LifeArea{}, persistence.ErrNotFound
	}
	return area, err
}

func activeNameTaken(ctx context.Context, q rowQuerier, name string, excludeID int64) (bool, error) {
	var count int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM life_areas WHERE name = ? AND is_active = 1 AND id != ?`,
		name, excludeID,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func scanLifeArea(row rowScanner) (persistence.LifeArea, error) {
	var (
		area                 persistence.LifeArea
		description          sql.NullString
		isActive             int
		createdAt, updatedAt int64
	)

	if err := row.Scan(
		&area.ID,
		&area.Name,
		&description,
		&area.Color,
		&area.Order,
		&isActive,
		&createdAt,
		&updatedAt,
	); err != nil {
		return persistence.LifeArea{}, err
	}

	if description.Valid {
		area.Description = &description.String
	}
	area.IsActive = isActive != 0
	area.CreatedAt = fromUnix(createdAt)
	area.UpdatedAt = fromUnix(updatedAt)
	return area, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
