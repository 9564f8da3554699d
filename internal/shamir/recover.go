package shamir

import (
	"sort"

	"github.com/ChronoCoders/hermes/internal/herrors"
)

// Recover reconstructs the secret from shares. All shares must share
// one (threshold, total_shares) and an equal-length y-vector; each
// share's checksum is verified before any interpolation runs, so a
// tampered share is rejected pre-recovery rather than silently
// producing a wrong secret. Fewer than threshold distinct x-values is
// ShareInvalid.
func Recover(shares []Share) ([]byte, error) {
	if len(shares) == 0 {
		return nil, herrors.New(herrors.ShareInvalid, "shamir.Recover", nil)
	}

	k := shares[0].Threshold
	n := shares[0].TotalShares
	length := len(shares[0].Y)

	seen := map[int]bool{}
	var unique []Share
	for _, s := range shares {
		if s.Threshold != k || s.TotalShares != n || len(s.Y) != length {
			return nil, herrors.New(herrors.ShareInvalid, "shamir.Recover", nil)
		}
		if !s.verifyChecksum() {
			return nil, herrors.New(herrors.ShareInvalid, "shamir.Recover", nil)
		}
		if seen[s.X] {
			continue
		}
		seen[s.X] = true
		unique = append(unique, s)
	}

	if len(unique) < k {
		return nil, herrors.New(herrors.ShareInvalid, "shamir.Recover", nil)
	}

	sort.Slice(unique, func(i, j int) bool { return unique[i].X < unique[j].X })
	points := unique[:k]

	secret := make([]byte, length)
	for byteIdx := 0; byteIdx < length; byteIdx++ {
		y := lagrangeAtZero(points, byteIdx)
		secret[byteIdx] = byte(y)
	}
	return secret, nil
}

// lagrangeAtZero interpolates the polynomial implied by points at
// x=0, for the coordinate at byteIdx in each point's y-vector, over
// GF(257).
func lagrangeAtZero(points []Share, byteIdx int) int {
	result := 0
	for i, pi := range points {
		xi := pi.X
		yi := int(pi.Y[byteIdx])

		num := 1
		den := 1
		for j, pj := range points {
			if i == j {
				continue
			}
			xj := pj.X
			num = mulMod(num, subMod(0, xj))
			den = mulMod(den, subMod(xi, xj))
		}
		term := mulMod(yi, mulMod(num, invMod(den)))
		result = addMod(result, term)
	}
	return result
}
