package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrValidationError(t *testing.T) {
	err := &ErrValidation{Field: "per_page", Message: "must be between 1 and 250"}
	if got, want := err.Error(), "per_page: must be between 1 and 250"; got != want {
		t.Fatalf("unexpected error string: got %q want %q", got, want)
	}
	if !IsValidation(fmt.Errorf("wrapped: %w", err)) {
		t.Fatalf("expected wrapped validation error to be detected")
	}
}

func TestPersistenceErrorUnwrap(t *testing.T) {
	base := stderrors.New("duplicate key")
	err := Persistence("insert snapshot", base)
	if !stderrors.Is(err, base) {
		t.Fatalf("expected errors.Is to reach the wrapped error")
	}
	if got, want := err.Error(), "persistence: insert snapshot: duplicate key"; got != want {
		t.Fatalf("unexpected error string: got %q want %q", got, want)
	}
	if Persistence("noop", nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
}

func TestSentinelsWrap(t *testing.T) {
	err := fmt.Errorf("%w: coingecko status 429", ErrSourceUnavailable)
	if !stderrors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected source unavailable sentinel")
	}
	if stderrors.Is(err, ErrNotFound) {
		t.Fatalf("did not expect not found sentinel")
	}
}
