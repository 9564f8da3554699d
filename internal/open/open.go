package open

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"crypto/subtle"
	"time"

	"github.com/ChronoCoders/hermes/internal/envelope"
	"github.com/ChronoCoders/hermes/internal/herrors"
	"github.com/ChronoCoders/hermes/internal/kem"
	"github.com/ChronoCoders/hermes/internal/keystore"
)

// KeyLoader resolves a recipient name to its private key material.
type KeyLoader interface {
	LoadPrivate(name string) (*keystore.KeySet, error)
}

// Metadata is returned alongside plaintext on a successful open.
type Metadata struct {
	Filename        string
	TTLRemaining    time.Duration // 0 if the envelope never expires
	RecipientNames  []string      // populated for multi-recipient envelopes
}

// Open runs the full §4.7 algorithm. recipientName is ignored for
// passphrase envelopes; passphrase is ignored for multi-recipient
// envelopes.
func Open(data []byte, passphrase string, recipientName string, ks KeyLoader) ([]byte, Metadata, error) {
	var e *envelope.Envelope
	var err error
	if envelope.LooksBinary(data) {
		e, err = envelope.Parse(data)
	} else {
		e, err = envelope.ParseLegacy(data)
	}
	if err != nil {
		return nil, Metadata{}, err
	}

	if e.ExpiresAt != 0 && uint64(time.Now().Unix()) > e.ExpiresAt {
		return nil, Metadata{}, herrors.New(herrors.Expired, "open.Open", nil)
	}

	dataKey, recipientNames, err := recoverDataKey(e, passphrase, recipientName, ks)
	if err != nil {
		return nil, Metadata{}, err
	}
	defer zero(dataKey)

	payload, err := aesGCMOpen(dataKey, e.Nonce[:], e.Ciphertext)
	if err != nil {
		return nil, Metadata{}, err
	}

	plaintext := payload
	if e.Compressed {
		plaintext, err = decompress(payload)
		if err != nil {
			return nil, Metadata{}, err
		}
	}

	sum := sha256.Sum256(plaintext)
	if subtle.ConstantTimeCompare(sum[:], e.Checksum[:]) != 1 {
		return nil, Metadata{}, herrors.New(herrors.IntegrityFailed, "open.Open", nil)
	}

	meta := Metadata{Filename: e.Filename, RecipientNames: recipientNames}
	if e.ExpiresAt != 0 {
		meta.TTLRemaining = time.Until(time.Unix(int64(e.ExpiresAt), 0))
	}
	return plaintext, meta, nil
}

func recoverDataKey(e *envelope.Envelope, passphrase, recipientName string, ks KeyLoader) ([]byte, []string, error) {
	if e.MultiRecipient {
		names := make([]string, 0, len(e.Recipients))
		var target *envelope.RecipientEntry
		for i := range e.Recipients {
			names = append(names, e.Recipients[i].Name)
			if e.Recipients[i].Name == recipientName {
				target = &e.Recipients[i]
			}
		}
		if target == nil {
			return nil, names, herrors.New(herrors.DecryptionFailed, "open.recoverDataKey", nil)
		}

		priv, err := ks.LoadPrivate(recipientName)
		if err != nil {
			return nil, names, err
		}

		var dataKey []byte
		switch {
		case kem.IsRSAWrapped(target.Wrapped):
			dataKey, err = kem.UnwrapRSA(target.Wrapped, priv.RSAPrivate)
		case kem.IsKyberWrapped(target.Wrapped):
			if priv.KyberPrivate == nil {
				return nil, names, herrors.New(herrors.KeyNotFound, "open.recoverDataKey", nil)
			}
			dataKey, err = kem.UnwrapKyber(target.Wrapped, priv.KyberPrivate)
		default:
			return nil, names, herrors.New(herrors.DecryptionFailed, "open.recoverDataKey", nil)
		}
		if err != nil {
			return nil, names, err
		}
		return dataKey, names, nil
	}

	key, err := deriveKey(passphrase, e.Salt)
	if err != nil {
		return nil, nil, err
	}
	return key, nil, nil
}

func aesGCMOpen(key, nonce, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, herrors.New(herrors.DecryptionFailed, "open.aesGCMOpen", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, herrors.New(herrors.DecryptionFailed, "open.aesGCMOpen", err)
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, herrors.New(herrors.DecryptionFailed, "open.aesGCMOpen", err)
	}
	return plaintext, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
