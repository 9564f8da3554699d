package seal

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"io"
	"time"

	"github.com/ChronoCoders/hermes/internal/envelope"
	"github.com/ChronoCoders/hermes/internal/herrors"
	"github.com/ChronoCoders/hermes/internal/kem"
	"github.com/ChronoCoders/hermes/internal/keystore"
)

// Request is the Sealer's input. Exactly one of Passphrase or
// Recipients must be set; PQ requires Recipients.
type Request struct {
	Plaintext  []byte
	Passphrase string
	Recipients []string // recipient names; public keys loaded from ks
	Filename   string
	TTLHours   int
	PQ         bool // wrap with Kyber instead of RSA
}

// KeyLoader resolves a recipient name to its public key material. The
// Sealer depends on this interface rather than *keystore.Store
// directly so tests can substitute an in-memory fixture.
type KeyLoader interface {
	LoadPublic(name string) (*keystore.KeySet, error)
}

// Seal runs the full §4.6 algorithm and returns the serialized
// envelope bytes. The sealer never logs or returns the data key;
// its buffer is overwritten before Seal returns.
func Seal(req Request, ks KeyLoader) ([]byte, error) {
	if (req.Passphrase == "") == (len(req.Recipients) == 0) {
		return nil, herrors.New(herrors.ConfigError, "seal.Seal", nil)
	}
	if req.PQ && len(req.Recipients) == 0 {
		return nil, herrors.New(herrors.ConfigError, "seal.Seal", nil)
	}

	e := &envelope.Envelope{Version: envelope.Version, Filename: req.Filename}

	dataKey := make([]byte, 32)
	defer zero(dataKey)

	if req.Passphrase != "" {
		saltText, err := newSalt()
		if err != nil {
			return nil, err
		}
		key, err := deriveKey(req.Passphrase, saltText)
		if err != nil {
			return nil, err
		}
		copy(dataKey, key)
		zero(key)
		e.Salt = saltText
	} else {
		if _, err := io.ReadFull(rand.Reader, dataKey); err != nil {
			return nil, herrors.New(herrors.IoError, "seal.Seal", err)
		}
		e.MultiRecipient = true

		for _, name := range req.Recipients {
			recipient, err := ks.LoadPublic(name)
			if err != nil {
				return nil, err
			}

			var wrapped []byte
			if req.PQ {
				if recipient.KyberPublic == nil {
					return nil, herrors.New(herrors.KeyNotFound, "seal.Seal", nil)
				}
				wrapped, err = kem.WrapKyber(dataKey, recipient.KyberPublic)
			} else {
				wrapped, err = kem.WrapRSA(dataKey, recipient.RSAPublic)
			}
			if err != nil {
				return nil, err
			}
			e.Recipients = append(e.Recipients, envelope.RecipientEntry{Name: name, Wrapped: wrapped})
		}
	}

	checksum := sha256.Sum256(req.Plaintext)
	e.Checksum = checksum
	e.OriginalSize = uint64(len(req.Plaintext))

	payload := req.Plaintext
	if compressed, use := shouldCompress(req.Plaintext); use {
		payload = compressed
		e.Compressed = true
	}

	var nonce [12]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, herrors.New(herrors.IoError, "seal.Seal", err)
	}
	e.Nonce = nonce

	ciphertext, err := aesGCMSeal(dataKey, nonce[:], payload)
	if err != nil {
		return nil, err
	}
	e.Ciphertext = ciphertext

	if req.TTLHours != 0 {
		e.ExpiresAt = uint64(time.Now().Add(time.Duration(req.TTLHours) * time.Hour).Unix())
	}

	return envelope.Serialize(e), nil
}

func aesGCMSeal(key, nonce, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, herrors.New(herrors.DecryptionFailed, "seal.aesGCMSeal", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, herrors.New(herrors.DecryptionFailed, "seal.aesGCMSeal", err)
	}
	return gcm.Seal(nil, nonce, plaintext, nil), nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
