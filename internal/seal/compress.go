package seal

import (
	"bytes"

	"github.com/klauspost/compress/gzip"
)

// compressBest gzips data at best-compression level using
// klauspost/compress's faster implementation of the same wire format
// the standard library's archive/gzip produces — any gzip reader,
// including a stdlib one reading an old envelope, can decode it.
func compressBest(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// shouldCompress implements §4.6 step 3: only worth it past 1 KiB, and
// only when the compressed form is strictly smaller.
func shouldCompress(plaintext []byte) (compressed []byte, use bool) {
	if len(plaintext) <= 1024 {
		return nil, false
	}
	out, err := compressBest(plaintext)
	if err != nil {
		return nil, false
	}
	if len(out) < len(plaintext) {
		return out, true
	}
	return nil, false
}
