package chunk

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ChronoCoders/hermes/internal/herrors"
)

// Split reads inputPath sequentially, writing fixed ChunkSize plain
// (not yet sealed) chunk files into scratchDir and returning the
// manifest describing them. A single chunk is held in memory at a
// time, never the whole file. token may be nil.
func Split(inputPath, scratchDir string, token *CancelToken) (*Manifest, error) {
	if err := os.MkdirAll(scratchDir, 0o700); err != nil {
		return nil, herrors.New(herrors.IoError, "chunk.Split", err)
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return nil, herrors.New(herrors.IoError, "chunk.Split", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, herrors.New(herrors.IoError, "chunk.Split", err)
	}

	whole := sha256.New()
	buf := make([]byte, ChunkSize)
	manifest := &Manifest{
		OriginalFilename: filepath.Base(inputPath),
		TotalSize:        stat.Size(),
		ChunkSize:        ChunkSize,
	}

	for index := 0; ; index++ {
		if token.Cancelled() {
			return nil, herrors.New(herrors.IoError, "chunk.Split", fmt.Errorf("cancelled"))
		}

		n, readErr := io.ReadFull(f, buf)
		if n == 0 {
			break
		}
		chunkBytes := buf[:n]

		whole.Write(chunkBytes)
		chunkHash := sha256.Sum256(chunkBytes)

		path := filepath.Join(scratchDir, fmt.Sprintf("chunk_%05d", index))
		if err := os.WriteFile(path, chunkBytes, 0o600); err != nil {
			return nil, herrors.New(herrors.IoError, "chunk.Split", err)
		}

		manifest.Chunks = append(manifest.Chunks, Info{
			Index: index,
			Size:  int64(n),
			Hash:  hex.EncodeToString(chunkHash[:]),
			Path:  path,
		})

		if readErr == io.ErrUnexpectedEOF || readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, herrors.New(herrors.IoError, "chunk.Split", readErr)
		}
	}

	manifest.ChunkCount = len(manifest.Chunks)
	manifest.FileHash = hex.EncodeToString(whole.Sum(nil))
	return manifest, nil
}
