package envelope

import (
	"bytes"
	"testing"
)

func sampleEnvelope() *Envelope {
	e := &Envelope{
		Version:    Version,
		Compressed: false,
		Salt:       []byte("c29tZXNhbHQ"),
		OriginalSize: 5,
		Filename:   "hello.txt",
		Ciphertext: []byte{1, 2, 3, 4, 5, 6, 7, 8},
	}
	copy(e.Nonce[:], bytes.Repeat([]byte{0xAB}, 12))
	copy(e.Checksum[:], bytes.Repeat([]byte{0xCD}, 32))
	return e
}

func TestSerializeParseRoundTrip(t *testing.T) {
	want := sampleEnvelope()
	data := Serialize(want)

	if !LooksBinary(data) {
		t.Fatalf("serialized envelope should sniff as binary")
	}

	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got.Filename != want.Filename || got.OriginalSize != want.OriginalSize {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, want)
	}
	if !bytes.Equal(got.Ciphertext, want.Ciphertext) {
		t.Fatalf("ciphertext mismatch")
	}
	if !bytes.Equal(got.Salt, want.Salt) {
		t.Fatalf("salt mismatch")
	}
}

func TestSerializeMultiRecipientRoundTrip(t *testing.T) {
	e := sampleEnvelope()
	e.Salt = nil
	e.MultiRecipient = true
	e.Recipients = []RecipientEntry{
		{Name: "alice", Wrapped: bytes.Repeat([]byte{0x01}, 512)},
		{Name: "bob", Wrapped: bytes.Repeat([]byte{0x02}, 1600)},
	}

	data := Serialize(e)
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !got.MultiRecipient {
		t.Fatalf("expected MultiRecipient flag set")
	}
	if len(got.Recipients) != 2 || got.Recipients[0].Name != "alice" || got.Recipients[1].Name != "bob" {
		t.Fatalf("recipients mismatch: %+v", got.Recipients)
	}
}

func TestParseRejectsBadMagic(t *testing.T) {
	data := Serialize(sampleEnvelope())
	data[0] = 'X'
	if _, err := Parse(data); err == nil {
		t.Fatalf("expected error for bad magic")
	}
}

func TestParseRejectsUnknownVersion(t *testing.T) {
	data := Serialize(sampleEnvelope())
	data[4] = 99
	if _, err := Parse(data); err == nil {
		t.Fatalf("expected error for unknown version")
	}
}

func TestParseRejectsUnknownFlagBits(t *testing.T) {
	data := Serialize(sampleEnvelope())
	data[5] |= 1 << 7
	if _, err := Parse(data); err == nil {
		t.Fatalf("expected error for unknown flag bits")
	}
}

func TestParseRejectsTruncatedBuffer(t *testing.T) {
	data := Serialize(sampleEnvelope())
	if _, err := Parse(data[:len(data)-10]); err == nil {
		t.Fatalf("expected error for truncated buffer")
	}
}

func TestScenarioS1Prefix(t *testing.T) {
	e := &Envelope{Version: Version, Salt: []byte("salt")}
	data := Serialize(e)
	if data[0] != 'H' || data[1] != 'R' || data[2] != 'M' || data[3] != 'S' || data[4] != 1 || data[5] != 0 {
		t.Fatalf("expected HRMS\\x01\\x00 prefix, got %x", data[:6])
	}
}
