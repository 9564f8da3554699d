package open

import (
	"encoding/base64"

	"golang.org/x/crypto/argon2"

	"github.com/ChronoCoders/hermes/internal/herrors"
)

// Argon2id parameters must match internal/seal's exactly — both ends
// of one envelope's passphrase path have to agree on the work factor
// or re-derivation produces a different key and decryption simply
// fails as DecryptionFailed, indistinguishable from a wrong password.
const (
	argon2Time    = 2
	argon2MemKiB  = 19 * 1024
	argon2Threads = 1
	argon2KeyLen  = 32
)

func deriveKey(passphrase string, saltText []byte) ([]byte, error) {
	raw, err := base64.RawStdEncoding.DecodeString(string(saltText))
	if err != nil {
		return nil, herrors.New(herrors.DecryptionFailed, "open.deriveKey", err)
	}
	return argon2.IDKey([]byte(passphrase), raw, argon2Time, argon2MemKiB, argon2Threads, argon2KeyLen), nil
}
