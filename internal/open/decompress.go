// Package open implements the Opener (spec component C7): the
// reverse of seal — selecting an unwrap path, verifying, and
// decompressing a binary or legacy-JSON envelope back to plaintext.
package open

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/ChronoCoders/hermes/internal/herrors"
)

func decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, herrors.New(herrors.DecryptionFailed, "open.decompress", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, herrors.New(herrors.DecryptionFailed, "open.decompress", err)
	}
	return out, nil
}
