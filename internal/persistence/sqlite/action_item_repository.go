package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/roda-da-vida/internal/persistence"
)

const selectActionItem = `
	SELECT id, area_id, title, created_at, position, archived_at
	FROM action_items
`

// ActionItemRepository implements persistence.ActionItemRepository using SQLite
type ActionItemRepository struct {
	store  *Store
	mapper *ErrorMapper
}

// NewActionItemRepository creates a new SQLite action item repository
func NewActionItemRepository(store *Store) *ActionItemRepository {
	return &ActionItemRepository{
		store:  store,
		mapper: NewErrorMapper(),
	}
}

// CreateActionItem appends an item after the highest position in the whole table.
// The item's Position field is ignored.
func (r *ActionItemRepository) CreateActionItem(ctx context.Context, item persistence.ActionItem) (persistence.ActionItem, error) {
	err := r.store.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getLifeArea(ctx, tx, item.AreaID); err != nil {
			return r.mapper.MapError(err)
		}

		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(position), -1) + 1 FROM action_items`,
		).Scan(&item.Position); err != nil {
			return r.mapper.MapError(err)
		}

		result, err := tx.ExecContext(ctx,
			`INSERT INTO action_items (area_id, title, created_at, position) VALUES (?, ?, ?, ?)`,
			item.AreaID, item.Title, toUnix(item.CreatedAt), item.Position,
		)
		if err != nil {
			return r.mapper.MapError(err)
		}

		item.ID, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read inserted id: %w", err)
		}
		item.ArchivedAt = nil
		return nil
	})
	if err != nil {
		return persistence.ActionItem{}, err
	}
	return item, nil
}

// GetActionItem retrieves an item by ID, archived or not.
func (r *ActionItemRepository) GetActionItem(ctx context.Context, id int64) (persistence.ActionItem, error) {
	var item persistence.ActionItem
	err := r.store.withConn(ctx, func(conn *sql.Conn) error {
		var err error
		item, err = scanActionItem(conn.QueryRowContext(ctx, selectActionItem+` WHERE id = ?`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.ErrNotFound
		}
		return r.mapper.MapError(err)
	})
	return item, err
}

// ListActionItems returns non-archived items by position, then creation time.
func (r *ActionItemRepository) ListActionItems(ctx context.Context, filter persistence.ActionItemFilter) ([]persistence.ActionItem, error) {
	query := selectActionItem + ` WHERE archived_at IS NULL`
	var args []any
	if filter.AreaID != nil {
		query += ` AND area_id = ?`
		args = append(args, *filter.AreaID)
	}
	query += ` ORDER BY position ASC, created_at ASC, id ASC`

	var items []persistence.ActionItem
	err := r.store.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return r.mapper.MapError(err)
		}
		defer rows.Close()

		for rows.Next() {
			item, err := scanActionItem(rows)
			if err != nil {
				return r.mapper.MapError(err)
			}
			items = append(items, item)
		}
		return r.mapper.MapError(rows.Err())
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateActionItemTitle renames an item.
func (r *ActionItemRepository) UpdateActionItemTitle(ctx context.Context, id int64, title string) error {
	return r.execOne(ctx, `UPDATE action_items SET title = ? WHERE id = ?`, title, id)
}

// ArchiveActionItem stamps archived_at, hiding the item from listings.
func (r *ActionItemRepository) ArchiveActionItem(ctx context.Context, id int64, at time.Time) error {
	return r.execOne(ctx, `UPDATE action_items SET archived_at = ? WHERE id = ?`, toUnix(at), id)
}

// DeleteActionItem removes an item permanently.
func (r *ActionItemRepository) DeleteActionItem(ctx context.Context, id int64) error {
	return r.execOne(ctx, `DELETE FROM action_items WHERE id = ?`, id)
}

// ReorderActionItems applies every update in one transaction. An unknown ID rolls back the batch.
func (r *ActionItemRepository) ReorderActionItems(ctx context.Context, updates []persistence.PositionUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `UPDATE action_items SET position = ? WHERE id = ?`)
		if err != nil {
			return r.mapper.MapError(err)
		}
		defer stmt.Close()

		for _, u := range updates {
			result, err := stmt.ExecContext(ctx, u.Position, u.ID)
			if err != nil {
				return r.mapper.MapError(err)
			}
			n, err := rowsAffected(result)
			if err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("action item %d: %w", u.ID, persistence.ErrNotFound)
			}
		}
		return nil
	})
}

func (r *ActionItemRepository) execOne(ctx context.Context, query string, args ...any) error {
	return r.store.withConn(ctx, func(conn *sql.Conn) error {
		result, err := conn.ExecContext(ctx, query, args...)
		if err != nil {
			return r.mapper.MapError(err)
		}
		n, err := rowsAffected(result)
		if err != nil {
			return err
		}
		if n == 0 {
			return persistence.ErrNotFound
		}
		return nil
	})
}

func scanActionItem(row rowScanner) (persistence.ActionItem, error) {
	var (
		item       persistence.ActionItem
		createdAt  int64
		archivedAt sql.NullInt64
	)
	if err := row.Scan(&item.ID, &item.AreaID, &item.Title, &createdAt, &item.Position, &archivedAt); err != nil {
		return persistence.ActionItem{}, err
	}
	item.CreatedAt = fromUnix(createdAt)
	item.ArchivedAt = timePtr(archivedAt)
	return item, nil
}
