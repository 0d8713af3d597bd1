package migration

import (
	"testing"
)

func TestPositionSequence(t *testing.T) {
	tests := []struct {
		name   string
		input  []any
		expect []int64
		next   int64
	}{
		{
			name:   "no prior positions counts from zero",
			input:  []any{nil, nil, nil},
			expect: []int64{0, 1, 2},
			next:   3,
		},
		{
			name:   "explicit positions advance counter past the maximum",
			input:  []any{int64(0), int64(5), nil},
			expect: []int64{0, 5, 6},
			next:   7,
		},
		{
			name:   "lower explicit position does not pull counter back",
			input:  []any{int64(4), int64(2), nil, nil},
			expect: []int64{4, 2, 5, 6},
			next:   7,
		},
		{
			name:   "empty table",
			input:  nil,
			expect: nil,
			next:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq := NewPositionSequence()
			for i, in := range tt.input {
				got, err := seq.Value(in)
				if err != nil {
					t.Fatalf("Value(%v) error = %v", in, err)
				}
				if got.(int64) != tt.expect[i] {
					t.Fatalf("row %d: expected position %d, got %v", i, tt.expect[i], got)
				}
			}
			if seq.Next() != tt.next {
				t.Fatalf("expected next %d, got %d", tt.next, seq.Next())
			}
		})
	}
}

func TestPositionSequence_RejectsNonInteger(t *testing.T) {
	seq := NewPositionSequence()
	if _, err := seq.Value("first"); err == nil {
		t.Fatal("expected error for text position")
	}
	if _, err := seq.Value(1.5); err == nil {
		t.Fatal("expected error for fractional position")
	}
	if got, err := seq.Value(float64(3)); err != nil || got.(int64) != 3 {
		t.Fatalf("expected integral float to be accepted, got %v, %v", got, err)
	}
}

func TestKeepOrNull(t *testing.T) {
	b := KeepOrNull()
	if got, _ := b.Value(nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	if got, _ := b.Value(int64(42)); got != int64(42) {
		t.Fatalf("expected 42 to be copied through, got %v", got)
	}
}
