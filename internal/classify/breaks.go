package classify

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
)

// DefaultMaxSamples bounds the number of values fed to Jenks. The dynamic
// program is O(n²·k), so larger inputs are thinned first.
const DefaultMaxSamples = 4000

// Breaks returns k+1 class boundaries for values. Jenks is used unless the
// input is degenerate (two or fewer distinct values, k <= 1, or a Jenks
// result with repeated or missing boundaries), in which case the range is
// split linearly. When len(values) exceeds maxSamples (> 1), Jenks runs on
// an evenly strided sample of the sorted values that keeps min and max,
// and sampled is true.
func Breaks(values []float64, k, maxSamples int) (breaks []float64, sampled bool) {
	if len(values) == 0 || k <= 0 {
		return nil, false
	}
	lo, _ := stats.Min(values)
	hi, _ := stats.Max(values)

	if k > 1 && distinctAtLeast(values, 3) {
		input := values
		if maxSamples > 1 && len(values) > maxSamples {
			input = strideSample(values, maxSamples)
			sampled = true
		}
		b := Jenks(input, k)
		if len(b) == k+1 && strictlyDistinct(b) {
			return b, sampled
		}
	}
	return linear(lo, hi, k), sampled
}

func linear(lo, hi float64, k int) []float64 {
	if lo == hi {
		if k > 1 {
			return []float64{lo, lo + 1}
		}
		return []float64{lo, lo}
	}
	return floats.Span(make([]float64, k+1), lo, hi)
}

func distinctAtLeast(values []float64, n int) bool {
	seen := make(map[float64]struct{}, n)
	for _, v := range values {
		seen[v] = struct{}{}
		if len(seen) >= n {
			return true
		}
	}
	return false
}

func strictlyDistinct(b []float64) bool {
	seen := make(map[float64]struct{}, len(b))
	for _, v := range b {
		if _, dup := seen[v]; dup {
			return false
		}
		seen[v] = struct{}{}
	}
	return true
}

// strideSample picks n evenly spaced order statistics, always including the
// first and last.
func strideSample(values []float64, n int) []float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	out := make([]float64, n)
	last := float64(len(sorted) - 1)
	for i := range out {
		idx := int(math.Round(float64(i) * last / float64(n-1)))
		out[i] = sorted[idx]
	}
	return out
}
