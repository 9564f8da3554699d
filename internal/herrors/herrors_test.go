package herrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfAndIs(t *testing.T) {
	err := New(DecryptionFailed, "seal.Seal", errors.New("gcm: tag mismatch"))

	if !Is(err, DecryptionFailed) {
		t.Fatalf("expected Is(err, DecryptionFailed) to be true")
	}
	if Is(err, IntegrityFailed) {
		t.Fatalf("expected Is(err, IntegrityFailed) to be false")
	}

	kind, ok := KindOf(err)
	if !ok || kind != DecryptionFailed {
		t.Fatalf("KindOf returned (%v, %v), want (DecryptionFailed, true)", kind, ok)
	}
}

func TestKindOfWrapped(t *testing.T) {
	inner := New(KeyNotFound, "keystore.LoadPrivate", nil)
	wrapped := fmt.Errorf("command failed: %w", inner)

	kind, ok := KindOf(wrapped)
	if !ok || kind != KeyNotFound {
		t.Fatalf("KindOf through fmt.Errorf wrap = (%v, %v), want (KeyNotFound, true)", kind, ok)
	}
}

func TestKindOfNonHermesError(t *testing.T) {
	_, ok := KindOf(errors.New("plain error"))
	if ok {
		t.Fatalf("expected ok=false for a non-herrors error")
	}
}

func TestErrorStringWithoutCause(t *testing.T) {
	err := New(Expired, "open.Open", nil)
	want := "open.Open: Expired"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}
