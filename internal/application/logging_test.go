package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/example/roda-da-vida/internal/logging"
	"github.com/example/roda-da-vida/internal/persistence"
)

func TestDefaultLogger(t *testing.T) {
	t.Parallel()

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	if got := defaultLogger(custom); got != custom {
		t.Fatalf("expected custom logger to be returned")
	}

	if got := defaultLogger(nil); got != slog.Default() {
		t.Fatalf("expected default logger when none provided")
	}
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "not found", err: fmt.Errorf("wrap: %w", ErrNotFound), want: "not_found"},
		{name: "conflict", err: ErrConflict, want: "conflict"},
		{name: "validation", err: fieldError("name", "name is required"), want: "validation"},
		{name: "other", err: errors.New("disk full"), want: "unexpected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorKind(tt.err); got != tt.want {
				t.Fatalf("ErrorKind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMapRepoError(t *testing.T) {
	t.Parallel()

	if err := mapRepoError(fmt.Errorf("%w: row", persistence.ErrNotFound), ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mapRepoError(persistence.ErrDuplicate, "name"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	var vErr *ValidationError
	if err := mapRepoError(persistence.ErrConstraintViolation, "value"); !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["value"]; !ok {
		t.Fatalf("expected value field error, got %v", vErr.FieldErrors)
	}

	raw := errors.New("boom")
	if err := mapRepoError(raw, ""); err != raw {
		t.Fatalf("expected unknown error to pass through, got %v", err)
	}
}

func TestServiceLogger_PrefersContextLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctxLogger := slog.New(slog.NewJSONHandler(&buf, nil))
	ctx := logging.ContextWithLogger(context.Background(), ctxLogger)

	serviceLogger(ctx, slog.New(slog.NewTextHandler(io.Discard, nil)), "LifeAreaService", "CreateLifeArea").
		InfoContext(ctx, "hello")

	out := buf.String()
	for _, want := range []string{`"service":"LifeAreaService"`, `"operation":"CreateLifeArea"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
}
