package webapi

import (
	"encoding/base64"

	"github.com/ChronoCoders/hermes/internal/herrors"
)

func decodeB64(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, herrors.New(herrors.KeyParseError, "webapi.decodeB64", err)
	}
	return b, nil
}

func encodeB64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}
