package sign

import (
	"bytes"
	"testing"

	"github.com/ChronoCoders/hermes/internal/herrors"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	pub, priv, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	message := bytes.Repeat([]byte("hermes"), 171) // ~1KiB, matches scenario S6
	blob, err := Sign(priv, message)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	got, err := Verify(pub, blob)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !bytes.Equal(got, message) {
		t.Fatalf("Verify returned %x, want %x", got, message)
	}
}

func TestVerifyWrongKeyFails(t *testing.T) {
	_, priv, _ := GenerateKeyPair()
	pub2, _, _ := GenerateKeyPair()

	blob, err := Sign(priv, []byte("hello"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	_, err = Verify(pub2, blob)
	if !herrors.Is(err, herrors.SignatureInvalid) {
		t.Fatalf("expected SignatureInvalid, got %v", err)
	}
}

func TestVerifyTruncatedBlobFails(t *testing.T) {
	pub, priv, _ := GenerateKeyPair()
	blob, err := Sign(priv, []byte("a payload"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	truncated := blob[:len(blob)-1]
	_, err = Verify(pub, truncated)
	if !herrors.Is(err, herrors.SignatureInvalid) {
		t.Fatalf("expected SignatureInvalid for truncated blob, got %v", err)
	}
}
