// Package kem implements the two key-encapsulation paths a recipient
// entry in an envelope can use to wrap a 32-byte data key: RSA-4096
// (this file) and Kyber-1024 (kyber.go). Both expose the same
// wrap(data_key, public) / unwrap(wrapped, private) shape so the
// sealer and opener never branch on which primitive they're driving
// beyond picking the recipient's loaded key type.
package kem

import (
	"crypto/rand"
	"crypto/rsa"

	"github.com/ChronoCoders/hermes/internal/herrors"
)

// RSAKeyBits is the fixed modulus size. The repository commits to this
// one size; there is no per-recipient negotiation.
const RSAKeyBits = 4096

// RSACiphertextSize is the wrapped-key length for a 4096-bit modulus
// (one block, no chunking — the data key is 32 bytes, far under the
// modulus size minus padding overhead).
const RSACiphertextSize = RSAKeyBits / 8

// GenerateRSAKeyPair produces a fresh 4096-bit RSA key.
func GenerateRSAKeyPair() (*rsa.PrivateKey, error) {
	key, err := rsa.GenerateKey(rand.Reader, RSAKeyBits)
	if err != nil {
		return nil, herrors.New(herrors.IoError, "kem.GenerateRSAKeyPair", err)
	}
	return key, nil
}

// WrapRSA wraps a data key under a recipient's RSA public key using
// PKCS#1 v1.5 padding. The repository fixes this padding scheme (not
// OAEP) to match the original implementation's on-disk artifacts;
// mixing padding schemes across a recipient's history would make old
// envelopes unreadable, so this choice is repository-wide, not
// per-call.
func WrapRSA(dataKey []byte, pub *rsa.PublicKey) ([]byte, error) {
	wrapped, err := rsa.EncryptPKCS1v15(rand.Reader, pub, dataKey)
	if err != nil {
		return nil, herrors.New(herrors.DecryptionFailed, "kem.WrapRSA", err)
	}
	return wrapped, nil
}

// UnwrapRSA recovers a data key wrapped by WrapRSA. Every failure mode
// — padding check, wrong key, truncated ciphertext — collapses to
// DecryptionFailed so a caller cannot distinguish a padding oracle
// from a wrong-recipient attempt.
func UnwrapRSA(wrapped []byte, priv *rsa.PrivateKey) ([]byte, error) {
	dataKey, err := rsa.DecryptPKCS1v15(rand.Reader, priv, wrapped)
	if err != nil {
		return nil, herrors.New(herrors.DecryptionFailed, "kem.UnwrapRSA", err)
	}
	return dataKey, nil
}
