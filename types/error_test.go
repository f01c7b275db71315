package types

import (
	"errors"
	"testing"
)

func TestError_ChainingAndHelpers(t *testing.T) {
	t.Parallel()

	root := errors.New("root")
	err := NewErrorf(ErrCorruptState, "snapshot %s unreadable", "model.json").WithCause(root)

	if GetErrorCode(err) != ErrCorruptState {
		t.Fatalf("expected code %s, got %s", ErrCorruptState, GetErrorCode(err))
	}
	if !IsCode(err, ErrCorruptState) {
		t.Fatalf("expected IsCode match")
	}
	if !errors.Is(err, root) {
		t.Fatalf("expected errors.Is unwrap to root")
	}
	if got := err.Error(); got == "" {
		t.Fatalf("expected non-empty error string")
	}
}

func TestGetErrorCode_PlainError(t *testing.T) {
	t.Parallel()

	if code := GetErrorCode(errors.New("plain")); code != "" {
		t.Fatalf("expected empty code for plain error, got %s", code)
	}
}
