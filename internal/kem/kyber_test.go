package kem

import (
	"bytes"
	"testing"

	"github.com/ChronoCoders/hermes/internal/herrors"
)

func TestWrapUnwrapKyberRoundTrip(t *testing.T) {
	pub, priv, err := GenerateKyberKeyPair()
	if err != nil {
		t.Fatalf("GenerateKyberKeyPair: %v", err)
	}
	dataKey := bytes.Repeat([]byte{0x11}, 32)

	wrapped, err := WrapKyber(dataKey, pub)
	if err != nil {
		t.Fatalf("WrapKyber: %v", err)
	}
	if !IsKyberWrapped(wrapped) {
		t.Fatalf("wrapped length %d not recognized as Kyber", len(wrapped))
	}
	if IsRSAWrapped(wrapped) {
		t.Fatalf("Kyber-wrapped blob should not also look like an RSA wrap")
	}

	got, err := UnwrapKyber(wrapped, priv)
	if err != nil {
		t.Fatalf("UnwrapKyber: %v", err)
	}
	if !bytes.Equal(got, dataKey) {
		t.Fatalf("UnwrapKyber = %x, want %x", got, dataKey)
	}
}

func TestUnwrapKyberWrongKeyProducesWrongData(t *testing.T) {
	pub1, _, err := GenerateKyberKeyPair()
	if err != nil {
		t.Fatalf("GenerateKyberKeyPair: %v", err)
	}
	_, priv2, err := GenerateKyberKeyPair()
	if err != nil {
		t.Fatalf("GenerateKyberKeyPair: %v", err)
	}
	dataKey := bytes.Repeat([]byte{0x22}, 32)

	wrapped, err := WrapKyber(dataKey, pub1)
	if err != nil {
		t.Fatalf("WrapKyber: %v", err)
	}

	got, err := UnwrapKyber(wrapped, priv2)
	if err != nil {
		t.Fatalf("UnwrapKyber with wrong key returned error instead of wrong data: %v", err)
	}
	if bytes.Equal(got, dataKey) {
		t.Fatalf("expected wrong data key when decapsulating with the wrong private key")
	}
}

func TestUnwrapKyberTruncatedIsHardError(t *testing.T) {
	_, priv, _ := GenerateKyberKeyPair()
	_, err := UnwrapKyber([]byte{1, 2, 3}, priv)
	if !herrors.Is(err, herrors.DecryptionFailed) {
		t.Fatalf("expected DecryptionFailed for truncated wrap, got %v", err)
	}
}
