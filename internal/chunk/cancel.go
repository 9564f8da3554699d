// Package chunk implements the Chunker (spec component C8): splitting
// large inputs into fixed-size pieces, producing a manifest of
// per-chunk hashes, and reassembling with full integrity checking.
// Grounded on the original implementation's chunking.rs
// (split_file_into_chunks / reassemble_chunks_from_manifest /
// calculate_file_hash), generalized to Go's io and hash packages.
package chunk

import "sync/atomic"

// CancelToken is the caller-owned cooperative cancellation token §5
// describes: the Chunker checks it between chunk boundaries only,
// never mid-AEAD or mid-read of a single chunk.
type CancelToken struct {
	flag atomic.Bool
}

// Cancel marks the token as set. Safe to call from any goroutine.
func (t *CancelToken) Cancel() { t.flag.Store(true) }

// Cancelled reports whether Cancel has been called.
func (t *CancelToken) Cancelled() bool {
	if t == nil {
		return false
	}
	return t.flag.Load()
}
