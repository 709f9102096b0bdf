package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := Wrap(CodeNotFound, "load session", stderrors.New("no rows"))
	wrapped := fmt.Errorf("fetch: %w", err)

	if !HasCode(wrapped, CodeNotFound) {
		t.Fatalf("expected wrapped error to carry %s", CodeNotFound)
	}
	if HasCode(wrapped, CodeTransientIO) {
		t.Fatalf("did not expect %s", CodeTransientIO)
	}
	if got := CodeOf(wrapped); got != CodeNotFound {
		t.Fatalf("expected code %s, got %s", CodeNotFound, got)
	}
}

func TestCodeOfPlainError(t *testing.T) {
	if got := CodeOf(stderrors.New("boom")); got != CodeUnknown {
		t.Fatalf("expected %s, got %s", CodeUnknown, got)
	}
	if got := CodeOf(nil); got != "" {
		t.Fatalf("expected empty code for nil, got %s", got)
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := Wrap(CodeTransientIO, "put document", stderrors.New("timeout"))
	if err.Error() != "put document: timeout" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !stderrors.Is(err, err.Cause) {
		t.Fatal("expected Unwrap to expose the cause")
	}
}
