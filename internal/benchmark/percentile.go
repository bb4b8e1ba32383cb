// Package benchmark computes peer-group distributions over the KPI table at
// four nested levels: national, state, hospital type, and state-by-type.
package benchmark

import "sort"

// Percentile returns the p-th percentile (p in [0,1]) of a sorted slice
// using linear interpolation between closest ranks: rank h = (n-1)*p, value
// interpolated between floor(h) and ceil(h). Percentile of an empty slice is
// not defined; callers guard with the minimum group size.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * p
	lo := int(h)
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// Mean returns the arithmetic mean of values.
func Mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Distribution bundles the summary statistics of one peer group.
type Distribution struct {
	PeerCount int64
	P25       float64
	Median    float64
	P75       float64
	Mean      float64
}

// Describe computes the distribution of an unsorted value slice. The input
// is copied before sorting; callers keep their ordering.
func Describe(values []float64) Distribution {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return Distribution{
		PeerCount: int64(len(sorted)),
		P25:       Percentile(sorted, 0.25),
		Median:    Percentile(sorted, 0.50),
		P75:       Percentile(sorted, 0.75),
		Mean:      Mean(sorted),
	}
}
