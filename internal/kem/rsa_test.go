package kem

import (
	"bytes"
	"testing"

	"github.com/ChronoCoders/hermes/internal/herrors"
)

func TestWrapUnwrapRSARoundTrip(t *testing.T) {
	priv, err := GenerateRSAKeyPair()
	if err != nil {
		t.Fatalf("GenerateRSAKeyPair: %v", err)
	}
	dataKey := bytes.Repeat([]byte{0x42}, 32)

	wrapped, err := WrapRSA(dataKey, &priv.PublicKey)
	if err != nil {
		t.Fatalf("WrapRSA: %v", err)
	}
	if len(wrapped) != RSACiphertextSize {
		t.Fatalf("wrapped length = %d, want %d", len(wrapped), RSACiphertextSize)
	}

	got, err := UnwrapRSA(wrapped, priv)
	if err != nil {
		t.Fatalf("UnwrapRSA: %v", err)
	}
	if !bytes.Equal(got, dataKey) {
		t.Fatalf("UnwrapRSA = %x, want %x", got, dataKey)
	}
}

func TestUnwrapRSAWrongKeyFails(t *testing.T) {
	priv1, _ := GenerateRSAKeyPair()
	priv2, _ := GenerateRSAKeyPair()
	dataKey := bytes.Repeat([]byte{0x7}, 32)

	wrapped, err := WrapRSA(dataKey, &priv1.PublicKey)
	if err != nil {
		t.Fatalf("WrapRSA: %v", err)
	}

	_, err = UnwrapRSA(wrapped, priv2)
	if !herrors.Is(err, herrors.DecryptionFailed) {
		t.Fatalf("expected DecryptionFailed, got %v", err)
	}
}
