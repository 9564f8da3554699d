// Package sign implements Dilithium-5 signing and verification with a
// combined "signed-message" framing: signature followed by message,
// matching the convention the original Rust implementation's
// pqcrypto_dilithium::SignedMessage type used. cloudflare/circl's
// dilithium/mode5 package (unlike pqcrypto_dilithium) returns a
// detached signature, so this package concatenates signature‖message
// itself and parses the same way on verify.
package sign

import (
	"crypto/rand"

	"github.com/cloudflare/circl/sign/dilithium/mode5"

	"github.com/ChronoCoders/hermes/internal/herrors"
)

const (
	PublicKeySize  = mode5.PublicKeySize
	PrivateKeySize = mode5.PrivateKeySize
	SignatureSize  = mode5.SignatureSize
)

// GenerateKeyPair produces a fresh Dilithium-5 key pair, packed to its
// native byte layout.
func GenerateKeyPair() (pub, priv []byte, err error) {
	pk, sk, err := mode5.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, herrors.New(herrors.IoError, "sign.GenerateKeyPair", err)
	}
	return pk.Bytes(), sk.Bytes(), nil
}

// Sign produces a signed-message blob: SignatureSize bytes of
// signature followed by the verbatim message.
func Sign(privBytes, message []byte) ([]byte, error) {
	if len(privBytes) != PrivateKeySize {
		return nil, herrors.New(herrors.KeyParseError, "sign.Sign", nil)
	}

	var priv mode5.PrivateKey
	var arr [mode5.PrivateKeySize]byte
	copy(arr[:], privBytes)
	priv.Unpack(&arr)

	sig := make([]byte, SignatureSize)
	mode5.SignTo(&priv, message, sig)

	blob := make([]byte, 0, SignatureSize+len(message))
	blob = append(blob, sig...)
	blob = append(blob, message...)
	return blob, nil
}

// Verify parses a signed-message blob and, if the signature checks
// out against pubBytes, returns the extracted message. A truncated
// blob (shorter than one signature) and a well-formed blob with a bad
// signature both return SignatureInvalid — there is no side channel
// distinguishing malformed framing from a failed check.
func Verify(pubBytes, blob []byte) ([]byte, error) {
	if len(pubBytes) != PublicKeySize {
		return nil, herrors.New(herrors.KeyParseError, "sign.Verify", nil)
	}
	if len(blob) < SignatureSize {
		return nil, herrors.New(herrors.SignatureInvalid, "sign.Verify", nil)
	}

	sig := blob[:SignatureSize]
	message := blob[SignatureSize:]

	var pub mode5.PublicKey
	var arr [mode5.PublicKeySize]byte
	copy(arr[:], pubBytes)
	pub.Unpack(&arr)

	if !mode5.Verify(&pub, message, sig) {
		return nil, herrors.New(herrors.SignatureInvalid, "sign.Verify", nil)
	}
	return message, nil
}
