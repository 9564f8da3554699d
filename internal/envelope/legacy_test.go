package envelope

import (
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"
)

func TestParseLegacyRoundTrip(t *testing.T) {
	salt := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef"))
	nonce := base64.StdEncoding.EncodeToString([]byte("123456789012"))
	ciphertext := base64.StdEncoding.EncodeToString([]byte("legacy ciphertext"))
	checksum := hex.EncodeToString(make([]byte, 32))

	doc := `{"salt":"` + salt + `","nonce":"` + nonce + `","checksum":"` + checksum +
		`","ciphertext":"` + ciphertext + `","compressed":true,"filename":"old.txt"}`

	e, err := ParseLegacy([]byte(doc))
	if err != nil {
		t.Fatalf("ParseLegacy: %v", err)
	}
	if !e.Compressed {
		t.Fatalf("expected Compressed true")
	}
	if e.Filename != "old.txt" {
		t.Fatalf("Filename = %q, want old.txt", e.Filename)
	}
	if e.ExpiresAt != 0 {
		t.Fatalf("legacy envelopes must never expire, got %d", e.ExpiresAt)
	}
	if e.MultiRecipient || len(e.Recipients) != 0 {
		t.Fatalf("legacy envelopes are never multi-recipient")
	}
}

func TestParseLegacyRejectsMalformed(t *testing.T) {
	if _, err := ParseLegacy([]byte("not json")); err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
}

func TestParseLegacyRejectsBadNonceLength(t *testing.T) {
	doc := `{"salt":"AAAA","nonce":"` + base64.StdEncoding.EncodeToString([]byte("short")) +
		`","checksum":"` + hex.EncodeToString(make([]byte, 32)) + `","ciphertext":"AAAA"}`
	if _, err := ParseLegacy([]byte(doc)); err == nil {
		t.Fatalf("expected error for wrong-length nonce")
	}
}

func TestLooksBinaryDistinguishesLegacy(t *testing.T) {
	if LooksBinary([]byte(`{"salt":"x"}`)) {
		t.Fatalf("legacy JSON should not sniff as binary")
	}
	if !strings.HasPrefix(string(Serialize(sampleEnvelope())), "HRMS") {
		t.Fatalf("binary envelope should start with HRMS")
	}
}
