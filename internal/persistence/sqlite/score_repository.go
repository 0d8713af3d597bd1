package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/roda-da-vida/internal/persistence"
)

// ScoreRepository implements persistence.ScoreRepository using SQLite
type ScoreRepository struct {
	store  *Store
	mapper *ErrorMapper
}

// NewScoreRepository creates a new SQLite score repository
func NewScoreRepository(store *Store) *ScoreRepository {
	return &ScoreRepository{
		store:  store,
		mapper: NewErrorMapper(),
	}
}

// CreateScore records a score. The referenced area must exist.
func (r *ScoreRepository) CreateScore(ctx context.Context, score persistence.Score) (persistence.Score, error) {
	err := r.store.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getLifeArea(ctx, tx, score.AreaID); err != nil {
			return r.mapper.MapError(err)
		}

		result, err := tx.ExecContext(ctx,
			`INSERT INTO scores (area_id, value, recorded_at) VALUES (?, ?, ?)`,
			score.AreaID, score.Value, toUnix(score.RecordedAt),
		)
		if err != nil {
			return r.mapper.MapError(err)
		}

		score.ID, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read inserted id: %w", err)
		}
		return nil
	})
	if err != nil {
		return persistence.Score{}, err
	}
	return score, nil
}

// ListScoresByArea returns an area's history, newest first.
func (r *ScoreRepository) ListScoresByArea(ctx context.Context, areaID int64) ([]persistence.Score, error) {
	return r.list(ctx, `
		SELECT id, area_id, value, recorded_at
		FROM scores
		WHERE area_id = ?
		ORDER BY recorded_at DESC, id DESC
	`, areaID)
}

// LatestScore returns the most recent score of an area, or ErrNotFound when it has none.
func (r *ScoreRepository) LatestScore(ctx context.Context, areaID int64) (persistence.Score, error) {
	var score persistence.Score
	err := r.store.withConn(ctx, func(conn *sql.Conn) error {
		var err error
		score, err = scanScore(conn.QueryRowContext(ctx, `
			SELECT id, area_id, value, recorded_at
			FROM scores
			WHERE area_id = ?
			ORDER BY recorded_at DESC, id DESC
			LIMIT 1
		`, areaID))
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.ErrNotFound
		}
		return r.mapper.MapError(err)
	})
	return score, err
}

// LatestScoresForActiveAreas returns one latest score per active area in display order.
// Areas without scores are omitted.
func (r *ScoreRepository) LatestScoresForActiveAreas(ctx context.Context) ([]persistence.Score, error) {
	return r.list(ctx, `
		SELECT s.id, s.area_id, s.value, s.recorded_at
		FROM life_areas la
		JOIN scores s ON s.id = (
			SELECT id FROM scores
			WHERE area_id = la.id
			ORDER BY recorded_at DESC, id DESC
			LIMIT 1
		)
		WHERE la.is_active = 1
		ORDER BY la."order" ASC, la.name ASC
	`)
}

func (r *ScoreRepository) list(ctx context.Context, query string, args ...any) ([]persistence.Score, error) {
	var scores []persistence.Score
	err := r.store.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return r.mapper.MapError(err)
		}
		defer rows.Close()

		for rows.Next() {
			score, err := scanScore(rows)
			if err != nil {
				return r.mapper.MapError(err)
			}
			scores = append(scores, score)
		}
		return r.mapper.MapError(rows.Err())
	})
	if err != nil {
		return nil, err
	}
	return scores, nil
}

func scanScore(row rowScanner) (persistence.Score, error) {
	var (
		score      persistence.Score
		recordedAt int64
	)
	if err := row.Scan(&score.ID, &score.AreaID, &score.Value, &recordedAt); err != nil {
		return persistence.Score{}, err
	}
	score.RecordedAt = fromUnix(recordedAt)
	return score, nil
}
