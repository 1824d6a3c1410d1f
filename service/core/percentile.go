package core

import "math"

// Percentile returns the p-quantile (p in [0, 1]) of ascending sorted values,
// interpolating linearly between the two closest ranks: h = (n-1)p.
// This is the default method of numpy.percentile. gonum's stat.LinInterp uses a
// different plotting position, so it would not reproduce the same bands.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 || p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	h := float64(n-1) * p
	lo := int(math.Floor(h))
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := h - float64(lo)
	if frac == 0 || sorted[lo] == sorted[hi] {
		return sorted[lo]
	}
	// clamp guards against rounding past the upper rank
	return min(sorted[lo]+frac*(sorted[hi]-sorted[lo]), sorted[hi])
}
