package migration

import (
	"fmt"
)

// Backfill computes the value written to a column for each copied row.
// old is the value read from the old table, nil when the column was missing or NULL.
// Rows are presented in the order of the table's copy order, so implementations may keep state.
type Backfill interface {
	Value(old any) (any, error)
}

// BackfillFunc adapts an ordinary function to Backfill.
type BackfillFunc func(old any) (any, error)

// Value calls f(old).
func (f BackfillFunc) Value(old any) (any, error) {
	return f(old)
}

// KeepOrNull copies existing values through and leaves missing ones NULL.
// Used for archived_at: no archival information can be recovered, so old rows stay active.
func KeepOrNull() Backfill {
	return BackfillFunc(func(old any) (any, error) {
		return old, nil
	})
}

// PositionSequence assigns display positions to rows that have none.
//
// Explicit positions are adopted verbatim and push the counter to max(counter, position+1);
// missing ones take the counter and advance it by one. Fed in copy order (existing position
// ascending with NULLs last, then created_at, then id) this keeps prior ordering and never
// hands out a value that collides with an explicit one seen earlier.
type PositionSequence struct {
	next int64
}

// NewPositionSequence returns a sequence seeded at 0.
func NewPositionSequence() *PositionSequence {
	return &PositionSequence{}
}

// Value implements Backfill.
func (p *PositionSequence) Value(old any) (any, error) {
	if old == nil {
		assigned := p.next
		p.next++
		return assigned, nil
	}

	pos, err := asInt64(old)
	if err != nil {
		return nil, fmt.Errorf("position: %w", err)
	}
	if pos+1 > p.next {
		p.next = pos + 1
	}
	return pos, nil
}

// Next reports the value the next row without a position would receive.
func (p *PositionSequence) Next() int64 {
	return p.next
}

func asInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case float64:
		if n != float64(int64(n)) {
			return 0, fmt.Errorf("non-integer value %v", n)
		}
		return int64(n), nil
	default:
		return 0, fmt.Errorf("unsupported value %v (%T)", v, v)
	}
}
