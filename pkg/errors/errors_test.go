package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", NotFound("poll not found"), ErrNotFound},
		{"wrapped", fmt.Errorf("settle: %w", InvalidState("poll already settled")), ErrInvalidState},
		{"plain error", stderrors.New("boom"), ErrInternal},
		{"internal", Internal("db", stderrors.New("conn reset")), ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	if Is(nil, ErrInternal) {
		t.Error("Is(nil) = true")
	}
	if !Is(Forbidden("no"), ErrForbidden) {
		t.Error("Is(Forbidden, ErrForbidden) = false")
	}
	if Is(Forbidden("no"), ErrNotFound) {
		t.Error("Is(Forbidden, ErrNotFound) = true")
	}
}

func TestUnwrapAndMessage(t *testing.T) {
	cause := stderrors.New("conn reset")
	err := Internal("failed to load poll", cause)

	if !stderrors.Is(err, cause) {
		t.Error("cause is not reachable through Unwrap")
	}
	if got := MessageOf(err); got != "failed to load poll" {
		t.Errorf("MessageOf() = %q", got)
	}
	if got := MessageOf(stderrors.New("raw")); got != "raw" {
		t.Errorf("MessageOf(plain) = %q", got)
	}
}
