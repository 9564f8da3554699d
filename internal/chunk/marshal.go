package chunk

import (
	"encoding/json"

	"github.com/ChronoCoders/hermes/internal/herrors"
	"github.com/ChronoCoders/hermes/internal/sign"
)

// MarshalPretty renders manifest as pretty-printed JSON, the format
// it's sealed and uploaded in.
func (m *Manifest) MarshalPretty() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, herrors.New(herrors.IoError, "chunk.MarshalPretty", err)
	}
	return data, nil
}

// UnmarshalManifest parses manifest JSON back into a Manifest.
func UnmarshalManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, herrors.New(herrors.KeyParseError, "chunk.UnmarshalManifest", err)
	}
	return &m, nil
}

// Sign produces a Dilithium-5 signed-message blob over the manifest's
// pretty-printed JSON, so a chunked transfer's manifest can carry
// authenticity independent of the sealing passphrase/recipients —
// generalizing the original implementation's standalone file-signing
// command to cover manifests specifically.
func (m *Manifest) Sign(dilithiumPriv []byte) ([]byte, error) {
	data, err := m.MarshalPretty()
	if err != nil {
		return nil, err
	}
	return sign.Sign(dilithiumPriv, data)
}

// VerifySignedManifest verifies a signed-message blob produced by
// Manifest.Sign and parses the recovered JSON.
func VerifySignedManifest(blob, dilithiumPub []byte) (*Manifest, error) {
	data, err := sign.Verify(dilithiumPub, blob)
	if err != nil {
		return nil, err
	}
	return UnmarshalManifest(data)
}
