package shamir

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"github.com/google/uuid"
)

// Share is one of n pieces produced by Split; any k reconstruct the
// secret. Wire shape matches §6 exactly.
type Share struct {
	ID          string   `json:"id"`
	Threshold   int      `json:"threshold"`
	TotalShares int      `json:"total_shares"`
	X           int      `json:"x"`
	Y           []uint16 `json:"y"`
	Checksum    string   `json:"checksum"`
}

// checksumFor computes the SHA-256 of id‖k‖n‖x‖y-vector, the
// per-share integrity check that lets Recover detect a tampered
// share before doing any interpolation work.
func checksumFor(id string, k, n, x int, y []uint16) string {
	h := sha256.New()
	h.Write([]byte(id))
	var tmp [8]byte
	binary.LittleEndian.PutUint32(tmp[0:4], uint32(k))
	binary.LittleEndian.PutUint32(tmp[4:8], uint32(n))
	h.Write(tmp[:])
	binary.LittleEndian.PutUint32(tmp[0:4], uint32(x))
	h.Write(tmp[0:4])
	yBuf := make([]byte, len(y)*2)
	for i, v := range y {
		binary.LittleEndian.PutUint16(yBuf[i*2:], v)
	}
	h.Write(yBuf)
	return hex.EncodeToString(h.Sum(nil))
}

func newShareID() string {
	return uuid.NewString()
}

func (s *Share) verifyChecksum() bool {
	return s.Checksum == checksumFor(s.ID, s.Threshold, s.TotalShares, s.X, s.Y)
}
