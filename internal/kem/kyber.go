package kem

import (
	"crypto/rand"

	"github.com/cloudflare/circl/kem/kyber/kyber1024"

	"github.com/ChronoCoders/hermes/internal/herrors"
)

// Kyber key and ciphertext sizes, fixed by the primitive.
const (
	KyberPublicKeySize  = kyber1024.PublicKeySize
	KyberPrivateKeySize = kyber1024.PrivateKeySize
	KyberCiphertextSize = kyber1024.CiphertextSize
	KyberSharedKeySize  = kyber1024.SharedKeySize

	// KyberWrappedSize is the length of a Kyber-wrapped data key:
	// the KEM ciphertext followed by the XOR-masked 32-byte data key.
	KyberWrappedSize = KyberCiphertextSize + 32
)

// GenerateKyberKeyPair produces a fresh Kyber-1024 key pair, packed to
// its native byte layout.
func GenerateKyberKeyPair() (pub, priv []byte, err error) {
	pk, sk, err := kyber1024.GenerateKeyPair(rand.Reader)
	if err != nil {
		return nil, nil, herrors.New(herrors.IoError, "kem.GenerateKyberKeyPair", err)
	}
	pub = make([]byte, KyberPublicKeySize)
	priv = make([]byte, KyberPrivateKeySize)
	pk.Pack(pub)
	sk.Pack(priv)
	return pub, priv, nil
}

// WrapKyber encapsulates a fresh shared secret to pubBytes and masks
// dataKey with it, following the original implementation's format:
// wrapped = ciphertext ‖ (dataKey XOR sharedSecret). RSA and Kyber are
// independent wrap paths; this function never mixes the two.
func WrapKyber(dataKey, pubBytes []byte) ([]byte, error) {
	if len(pubBytes) != KyberPublicKeySize {
		return nil, herrors.New(herrors.KeyParseError, "kem.WrapKyber", nil)
	}
	if len(dataKey) != 32 {
		return nil, herrors.New(herrors.DecryptionFailed, "kem.WrapKyber", nil)
	}

	var pub kyber1024.PublicKey
	pub.Unpack(pubBytes)

	ciphertext := make([]byte, KyberCiphertextSize)
	shared := make([]byte, KyberSharedKeySize)
	pub.EncapsulateTo(ciphertext, shared, nil)

	masked := make([]byte, 32)
	for i := range masked {
		masked[i] = dataKey[i] ^ shared[i]
	}

	wrapped := make([]byte, 0, KyberWrappedSize)
	wrapped = append(wrapped, ciphertext...)
	wrapped = append(wrapped, masked...)
	return wrapped, nil
}

// UnwrapKyber reverses WrapKyber. A wrapped blob of the wrong length
// is rejected outright with DecryptionFailed (it can't possibly be a
// Kyber ciphertext);
// a Kyber decapsulation to the wrong private key silently produces
// the wrong shared secret and therefore the wrong data key, which
// fails downstream at the AEAD step with DecryptionFailed — this
// function itself never rejects based on key mismatch.
func UnwrapKyber(wrapped, privBytes []byte) ([]byte, error) {
	if len(wrapped) != KyberWrappedSize {
		return nil, herrors.New(herrors.DecryptionFailed, "kem.UnwrapKyber", nil)
	}
	if len(privBytes) != KyberPrivateKeySize {
		return nil, herrors.New(herrors.KeyParseError, "kem.UnwrapKyber", nil)
	}

	var priv kyber1024.PrivateKey
	priv.Unpack(privBytes)

	ciphertext := wrapped[:KyberCiphertextSize]
	masked := wrapped[KyberCiphertextSize:]

	shared := make([]byte, KyberSharedKeySize)
	priv.DecapsulateTo(shared, ciphertext)

	dataKey := make([]byte, 32)
	for i := range dataKey {
		dataKey[i] = masked[i] ^ shared[i]
	}
	return dataKey, nil
}

// IsKyberWrapped reports whether a wrapped-key blob's length uniquely
// identifies it as a Kyber wrap rather than an RSA wrap. The opener
// uses this to select the unwrap path per recipient entry without any
// explicit algorithm tag in the envelope.
func IsKyberWrapped(wrapped []byte) bool {
	return len(wrapped) == KyberWrappedSize
}

// IsRSAWrapped reports the RSA-4096 analogue of IsKyberWrapped.
func IsRSAWrapped(wrapped []byte) bool {
	return len(wrapped) == RSACiphertextSize
}
