package chunk

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/ChronoCoders/hermes/internal/herrors"
)

// FetchFunc returns the decrypted plaintext bytes of chunk index. The
// Chunker doesn't care how the caller got them (opened from a local
// file, downloaded and opened from remote storage) — any failure
// bubbles up through here, including an IoError for a missing chunk.
type FetchFunc func(index int) ([]byte, error)

// Reassemble validates manifest's internal invariants, then fetches
// and verifies every chunk in order before writing outPath. Output is
// written to a temp file and renamed into place only once every chunk
// has verified, so a failure partway through never leaves a
// partially-reassembled file at outPath.
func Reassemble(manifest *Manifest, fetch FetchFunc, outPath string, token *CancelToken) error {
	if manifest.ChunkCount != len(manifest.Chunks) {
		return herrors.New(herrors.IntegrityFailed, "chunk.Reassemble", fmt.Errorf("declared count %d does not match %d records", manifest.ChunkCount, len(manifest.Chunks)))
	}
	for i, c := range manifest.Chunks {
		if c.Index != i {
			return herrors.New(herrors.IntegrityFailed, "chunk.Reassemble", fmt.Errorf("chunk record %d has index %d", i, c.Index))
		}
	}

	tmp, err := os.CreateTemp("", ".hermes-reassemble-*")
	if err != nil {
		return herrors.New(herrors.IoError, "chunk.Reassemble", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	whole := sha256.New()

	for _, c := range manifest.Chunks {
		if token.Cancelled() {
			tmp.Close()
			return herrors.New(herrors.IoError, "chunk.Reassemble", fmt.Errorf("cancelled"))
		}

		data, err := fetch(c.Index)
		if err != nil {
			tmp.Close()
			return err
		}

		sum := sha256.Sum256(data)
		if hex.EncodeToString(sum[:]) != c.Hash {
			tmp.Close()
			return herrors.New(herrors.IntegrityFailed, "chunk.Reassemble", fmt.Errorf("chunk %d hash mismatch", c.Index))
		}

		if _, err := tmp.Write(data); err != nil {
			tmp.Close()
			return herrors.New(herrors.IoError, "chunk.Reassemble", err)
		}
		whole.Write(data)
	}

	if hex.EncodeToString(whole.Sum(nil)) != manifest.FileHash {
		tmp.Close()
		return herrors.New(herrors.IntegrityFailed, "chunk.Reassemble", fmt.Errorf("whole-file hash mismatch"))
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return herrors.New(herrors.IoError, "chunk.Reassemble", err)
	}
	if err := tmp.Close(); err != nil {
		return herrors.New(herrors.IoError, "chunk.Reassemble", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		return herrors.New(herrors.IoError, "chunk.Reassemble", err)
	}
	return nil
}
