// Package seal implements the Sealer (spec component C6): turning
// plaintext into a binary envelope under either a passphrase or a set
// of recipient public keys.
package seal

import (
	"crypto/rand"
	"encoding/base64"
	"io"

	"golang.org/x/crypto/argon2"

	"github.com/ChronoCoders/hermes/internal/herrors"
)

// Argon2id parameters, matching the RFC 9106 "recommended" profile
// the original Rust implementation's argon2::Argon2::default() uses:
// 19 MiB of memory, 2 passes, single-threaded.
const (
	argon2Time    = 2
	argon2MemKiB  = 19 * 1024
	argon2Threads = 1
	argon2KeyLen  = 32
	saltRawBytes  = 16
)

// newSalt samples fresh random salt bytes and returns its PHC-style
// base64 text form — this text, not the raw bytes, is what goes into
// the envelope's salt field, matching the original implementation's
// SaltString round-trip.
func newSalt() (saltText []byte, err error) {
	raw := make([]byte, saltRawBytes)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return nil, herrors.New(herrors.IoError, "seal.newSalt", err)
	}
	text := base64.RawStdEncoding.EncodeToString(raw)
	return []byte(text), nil
}

// deriveKey re-derives the 32-byte data key from a passphrase and the
// salt text stored in an envelope.
func deriveKey(passphrase string, saltText []byte) ([]byte, error) {
	raw, err := base64.RawStdEncoding.DecodeString(string(saltText))
	if err != nil {
		return nil, herrors.New(herrors.DecryptionFailed, "seal.deriveKey", err)
	}
	key := argon2.IDKey([]byte(passphrase), raw, argon2Time, argon2MemKiB, argon2Threads, argon2KeyLen)
	return key, nil
}
