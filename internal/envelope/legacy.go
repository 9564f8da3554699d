package envelope

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"

	"github.com/ChronoCoders/hermes/internal/herrors"
)

// legacyJSON mirrors the pre-binary text envelope format: everything
// base64 except the checksum, which was hex. New code never emits
// this shape; ParseLegacy exists purely to keep old artifacts openable.
type legacyJSON struct {
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	Checksum   string `json:"checksum"`
	Ciphertext string `json:"ciphertext"`
	Compressed bool   `json:"compressed"`
	Filename   string `json:"filename,omitempty"`
}

// ParseLegacy decodes the old JSON-form envelope into the same
// Envelope struct the binary codec produces, with ExpiresAt forced to
// 0 (legacy artifacts never expire) and no recipients (legacy was
// passphrase-only).
func ParseLegacy(data []byte) (*Envelope, error) {
	var lj legacyJSON
	if err := json.Unmarshal(data, &lj); err != nil {
		return nil, herrors.New(herrors.KeyParseError, "envelope.ParseLegacy", err)
	}

	salt, err := base64.StdEncoding.DecodeString(lj.Salt)
	if err != nil {
		return nil, herrors.New(herrors.KeyParseError, "envelope.ParseLegacy", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(lj.Nonce)
	if err != nil {
		return nil, herrors.New(herrors.KeyParseError, "envelope.ParseLegacy", err)
	}
	if len(nonce) != 12 {
		return nil, herrors.New(herrors.KeyParseError, "envelope.ParseLegacy", nil)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(lj.Ciphertext)
	if err != nil {
		return nil, herrors.New(herrors.KeyParseError, "envelope.ParseLegacy", err)
	}
	checksum, err := hex.DecodeString(lj.Checksum)
	if err != nil || len(checksum) != 32 {
		return nil, herrors.New(herrors.KeyParseError, "envelope.ParseLegacy", err)
	}

	e := &Envelope{
		Version:    Version,
		Compressed: lj.Compressed,
		Salt:       salt,
		Ciphertext: ciphertext,
		Filename:   lj.Filename,
		ExpiresAt:  0,
	}
	copy(e.Nonce[:], nonce)
	copy(e.Checksum[:], checksum)
	return e, nil
}
