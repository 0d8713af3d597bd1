package application

import (
	"context"
	"errors"
	"testing"

	"github.com/example/roda-da-vida/internal/persistence"
)

func TestParseResetScope(t *testing.T) {
	tests := []struct {
		in   string
		want persistence.ResetScope
	}{
		{in: "", want: persistence.ResetScopeAll},
		{in: "all", want: persistence.ResetScopeAll},
		{in: "Scores", want: persistence.ResetScopeScores},
		{in: "action_items", want: persistence.ResetScopeActionItems},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseResetScope(tt.in)
			if err != nil {
				t.Fatalf("ParseResetScope(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseResetScope(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	var vErr *ValidationError
	if _, err := ParseResetScope("everything"); !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestResetService(t *testing.T) {
	repo := &resetRepoStub{}
	svc := NewResetService(repo)
	ctx := context.Background()

	if err := svc.ResetArea(ctx, 4, persistence.ResetScopeScores); err != nil {
		t.Fatalf("ResetArea() error = %v", err)
	}
	if repo.areaID != 4 || repo.scope != persistence.ResetScopeScores {
		t.Fatalf("unexpected reset call: %+v", repo)
	}

	if err := svc.ResetAll(ctx); err != nil {
		t.Fatalf("ResetAll() error = %v", err)
	}
	if !repo.all {
		t.Fatalf("expected ResetAll to reach the repository")
	}

	repo.areaErr = persistence.ErrNotFound
	if err := svc.ResetArea(ctx, 9, persistence.ResetScopeAll); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
