package shamir

import (
	"crypto/rand"
	"math/big"

	"github.com/ChronoCoders/hermes/internal/herrors"
)

// Split divides secret into n shares, any k of which reconstruct it.
// For each byte of secret, k-1 random coefficients in [1,255] are
// sampled and the resulting degree-(k-1) polynomial (constant term =
// the secret byte) is evaluated at x = 1..n in GF(257).
func Split(secret []byte, k, n int) ([]Share, error) {
	if k < 2 || k > n {
		return nil, herrors.New(herrors.ShareInvalid, "shamir.Split", nil)
	}

	id := newShareID()
	ys := make([][]uint16, n)
	for i := range ys {
		ys[i] = make([]uint16, len(secret))
	}

	for byteIdx, b := range secret {
		coeffs := make([]int, k)
		coeffs[0] = int(b)
		for c := 1; c < k; c++ {
			v, err := randRange(1, 255)
			if err != nil {
				return nil, err
			}
			coeffs[c] = v
		}

		for x := 1; x <= n; x++ {
			y := evalPoly(coeffs, x)
			ys[x-1][byteIdx] = uint16(y)
		}
	}

	shares := make([]Share, n)
	for i := 0; i < n; i++ {
		x := i + 1
		shares[i] = Share{
			ID:          id,
			Threshold:   k,
			TotalShares: n,
			X:           x,
			Y:           ys[i],
			Checksum:    checksumFor(id, k, n, x, ys[i]),
		}
	}
	return shares, nil
}

func randRange(lo, hi int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(hi-lo+1)))
	if err != nil {
		return 0, herrors.New(herrors.IoError, "shamir.randRange", err)
	}
	return lo + int(n.Int64()), nil
}
