// Package stats has the shared numeric primitives used by all calculators.
package stats

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the sample standard deviation (n-1 denominator).
// The second return value is false when fewer than two samples exist.
// The sample convention is applied uniformly across the engine.
func StdDev(values []float64) (float64, bool) {
	n := len(values)
	if n < 2 {
		return 0, false
	}
	mean := Mean(values)
	var sqSum float64
	for _, v := range values {
		d := v - mean
		sqSum += d * d
	}
	return math.Sqrt(sqSum / float64(n-1)), true
}

// Percentile returns the nearest-rank percentile of values for p in [0, 1].
// The rank index is clamped to [0, len-1], so Percentile(xs, 0) is the
// minimum and Percentile(xs, 1) is the maximum. The second return value is
// false for an empty slice. The input is not mutated.
func Percentile(values []float64, p float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx > len(sorted)-1 {
		idx = len(sorted) - 1
	}
	return sorted[idx], true
}

// Median returns the nearest-rank median, or 0 for an empty slice.
func Median(values []float64) float64 {
	m, _ := Percentile(values, 0.5)
	return m
}

// MinMax returns the minimum and maximum of values.
// The third return value is false for an empty slice.
func MinMax(values []float64) (float64, float64, bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	return minV, maxV, true
}
