package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	err := New(InvalidPath, "path does not exist", nil)

	msg := err.Error()
	if !strings.Contains(msg, string(InvalidPath)) || !strings.Contains(msg, "path does not exist") {
		t.Errorf("expected code and message in %q", msg)
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("underlying")
	err := New(InternalError, "wrapper", cause)

	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to see the cause through Unwrap")
	}
}

func TestCodeOf(t *testing.T) {
	err := New(FileTooLarge, "too big", nil)

	if got := CodeOf(err); got != FileTooLarge {
		t.Errorf("expected FILE_TOO_LARGE, got %s", got)
	}

	wrapped := fmt.Errorf("context: %w", err)
	if got := CodeOf(wrapped); got != FileTooLarge {
		t.Errorf("expected code through wrapping, got %s", got)
	}

	if got := CodeOf(stderrors.New("plain")); got != InternalError {
		t.Errorf("expected INTERNAL_ERROR for foreign error, got %s", got)
	}
}

func TestIs(t *testing.T) {
	err := New(UnsupportedFile, "no analyzer", nil)

	if !Is(err, UnsupportedFile) {
		t.Error("expected Is to match the code")
	}
	if Is(err, InvalidPath) {
		t.Error("expected Is to reject a different code")
	}
	if Is(nil, InvalidPath) {
		t.Error("expected Is(nil) to be false")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(FileTooLarge, "too big", nil).WithDetails(map[string]interface{}{
		"sizeBytes": 123,
	})

	details, ok := err.Details.(map[string]interface{})
	if !ok || details["sizeBytes"] != 123 {
		t.Errorf("expected details to round-trip, got %v", err.Details)
	}
}
