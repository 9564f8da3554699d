package chunk

// ChunkSize is the fixed split size; the last chunk of a file may be
// shorter.
const ChunkSize = 50 * 1024 * 1024

// Info is one manifest row. Path is a pathname in the scratch
// directory during split, and the remote path once the caller has
// sealed and uploaded the chunk — the Chunker doesn't care which, it
// only ever compares index and hash.
type Info struct {
	Index int    `json:"index"`
	Size  int64  `json:"size"`
	Hash  string `json:"hash"` // hex SHA-256 of the plaintext chunk
	Path  string `json:"path"`
}

// Manifest describes one chunked file. Chunk array ordering is
// significant: the i-th element's Index must equal i.
type Manifest struct {
	OriginalFilename string  `json:"original_filename"`
	TotalSize        int64   `json:"total_size"`
	ChunkSize        int64   `json:"chunk_size"`
	ChunkCount       int     `json:"chunk_count"`
	FileHash         string  `json:"file_hash"` // hex SHA-256 of the whole plaintext file
	Chunks           []Info  `json:"chunks"`
}
