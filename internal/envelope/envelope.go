// Package envelope implements the binary container format sealed
// artifacts travel in: a fixed header, length-prefixed variable
// sections, and a recipient table. It is pure framing — no
// cryptography happens here, only byte layout — matching the original
// Rust implementation's EncryptedPackage::to_bytes/from_bytes split
// between "build the bytes" and "do the crypto" (crypto/encrypt.rs,
// crypto/decrypt.rs).
package envelope

import (
	"encoding/binary"
	"fmt"

	"github.com/ChronoCoders/hermes/internal/herrors"
)

// Magic is the 4-byte literal every binary envelope begins with.
var Magic = [4]byte{'H', 'R', 'M', 'S'}

// Version is the only framing version this repository emits. Readers
// reject anything else.
const Version = 1

const (
	FlagCompressed     byte = 1 << 0
	FlagMultiRecipient byte = 1 << 1

	knownFlagsMask = FlagCompressed | FlagMultiRecipient
)

// RecipientEntry is one row of the recipient table: a name and the
// data key wrapped for that name's public key (RSA or Kyber — the
// wrapped length alone tells the opener which).
type RecipientEntry struct {
	Name    string
	Wrapped []byte
}

// Envelope is the fully parsed, in-memory form of a sealed artifact.
type Envelope struct {
	Version        byte
	Compressed     bool
	MultiRecipient bool

	Salt []byte // empty when MultiRecipient

	Nonce    [12]byte
	Checksum [32]byte

	OriginalSize uint64
	ExpiresAt    uint64 // seconds since epoch, 0 = never

	Filename string

	Recipients []RecipientEntry // empty unless MultiRecipient

	Ciphertext []byte
}

// Serialize renders e to its binary wire form. Invariant (a) of §3 —
// exactly one of Salt or Recipients is populated — is the caller's
// (the Sealer's) responsibility; Serialize writes whatever it's given
// without second-guessing it beyond the section-length prefixes.
func Serialize(e *Envelope) []byte {
	var buf []byte
	buf = append(buf, Magic[:]...)
	buf = append(buf, e.Version)

	flags := byte(0)
	if e.Compressed {
		flags |= FlagCompressed
	}
	if e.MultiRecipient {
		flags |= FlagMultiRecipient
	}
	buf = append(buf, flags)

	buf = appendLenPrefixed16(buf, e.Salt)
	buf = append(buf, e.Nonce[:]...)
	buf = append(buf, e.Checksum[:]...)
	buf = appendU64(buf, e.OriginalSize)
	buf = appendU64(buf, e.ExpiresAt)
	buf = appendLenPrefixed16(buf, []byte(e.Filename))

	buf = appendU16(buf, uint16(len(e.Recipients)))
	for _, r := range e.Recipients {
		buf = appendLenPrefixed16(buf, []byte(r.Name))
		buf = appendLenPrefixed16(buf, r.Wrapped)
	}

	buf = appendLenPrefixed32(buf, e.Ciphertext)
	return buf
}

// Parse validates and decodes a binary envelope. Any declared section
// length that would run past the end of data, a wrong magic, an
// unknown version, or a flags byte with bits outside knownFlagsMask
// set is a hard parse error — the codec never guesses at intent.
func Parse(data []byte) (*Envelope, error) {
	r := &reader{buf: data}

	var magic [4]byte
	if !r.readBytes(magic[:]) {
		return nil, parseErr("truncated magic")
	}
	if magic != Magic {
		return nil, parseErr("bad magic")
	}

	version, ok := r.readByte()
	if !ok {
		return nil, parseErr("truncated version")
	}
	if version != Version {
		return nil, parseErr(fmt.Sprintf("unknown version %d", version))
	}

	flags, ok := r.readByte()
	if !ok {
		return nil, parseErr("truncated flags")
	}
	if flags&^knownFlagsMask != 0 {
		return nil, parseErr("unknown flag bits set")
	}

	e := &Envelope{
		Version:        version,
		Compressed:     flags&FlagCompressed != 0,
		MultiRecipient: flags&FlagMultiRecipient != 0,
	}

	salt, ok := r.readLenPrefixed16()
	if !ok {
		return nil, parseErr("truncated salt")
	}
	e.Salt = salt

	if !r.readBytes(e.Nonce[:]) {
		return nil, parseErr("truncated nonce")
	}
	if !r.readBytes(e.Checksum[:]) {
		return nil, parseErr("truncated checksum")
	}

	origSize, ok := r.readU64()
	if !ok {
		return nil, parseErr("truncated original_size")
	}
	e.OriginalSize = origSize

	expiresAt, ok := r.readU64()
	if !ok {
		return nil, parseErr("truncated expires_at")
	}
	e.ExpiresAt = expiresAt

	filename, ok := r.readLenPrefixed16()
	if !ok {
		return nil, parseErr("truncated filename")
	}
	e.Filename = string(filename)

	count, ok := r.readU16()
	if !ok {
		return nil, parseErr("truncated recipient count")
	}
	recipients := make([]RecipientEntry, 0, count)
	for i := uint16(0); i < count; i++ {
		name, ok := r.readLenPrefixed16()
		if !ok {
			return nil, parseErr("truncated recipient name")
		}
		wrapped, ok := r.readLenPrefixed16()
		if !ok {
			return nil, parseErr("truncated recipient wrapped key")
		}
		recipients = append(recipients, RecipientEntry{Name: string(name), Wrapped: wrapped})
	}
	e.Recipients = recipients

	ciphertext, ok := r.readLenPrefixed32()
	if !ok {
		return nil, parseErr("truncated ciphertext")
	}
	e.Ciphertext = ciphertext

	if !r.atEnd() {
		return nil, parseErr("trailing bytes")
	}

	return e, nil
}

// LooksBinary reports whether data starts with the HRMS magic, used
// by callers to pick between Parse and the legacy JSON parser without
// attempting (and discarding the error of) a binary parse first.
func LooksBinary(data []byte) bool {
	return len(data) >= 4 && data[0] == Magic[0] && data[1] == Magic[1] && data[2] == Magic[2] && data[3] == Magic[3]
}

func parseErr(msg string) error {
	return herrors.New(herrors.KeyParseError, "envelope.Parse", fmt.Errorf("%s", msg))
}

// --- little-endian byte cursor helpers ---

type reader struct {
	buf []byte
	pos int
}

func (r *reader) atEnd() bool { return r.pos == len(r.buf) }

func (r *reader) readBytes(dst []byte) bool {
	if r.pos+len(dst) > len(r.buf) {
		return false
	}
	copy(dst, r.buf[r.pos:r.pos+len(dst)])
	r.pos += len(dst)
	return true
}

func (r *reader) readByte() (byte, bool) {
	if r.pos+1 > len(r.buf) {
		return 0, false
	}
	b := r.buf[r.pos]
	r.pos++
	return b, true
}

func (r *reader) readU16() (uint16, bool) {
	if r.pos+2 > len(r.buf) {
		return 0, false
	}
	v := binary.LittleEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, true
}

func (r *reader) readU32() (uint32, bool) {
	if r.pos+4 > len(r.buf) {
		return 0, false
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, true
}

func (r *reader) readU64() (uint64, bool) {
	if r.pos+8 > len(r.buf) {
		return 0, false
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, true
}

func (r *reader) readLenPrefixed16() ([]byte, bool) {
	n, ok := r.readU16()
	if !ok {
		return nil, false
	}
	if r.pos+int(n) > len(r.buf) {
		return nil, false
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+int(n)])
	r.pos += int(n)
	return out, true
}

func (r *reader) readLenPrefixed32() ([]byte, bool) {
	n, ok := r.readU32()
	if !ok {
		return nil, false
	}
	if r.pos+int(n) > len(r.buf) {
		return nil, false
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+int(n)])
	r.pos += int(n)
	return out, true
}

func appendU16(buf []byte, v uint16) []byte {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendU64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendLenPrefixed16(buf []byte, data []byte) []byte {
	buf = appendU16(buf, uint16(len(data)))
	return append(buf, data...)
}

func appendLenPrefixed32(buf []byte, data []byte) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(len(data)))
	buf = append(buf, tmp[:]...)
	return append(buf, data...)
}
