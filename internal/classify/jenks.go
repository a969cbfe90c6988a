package classify

import (
	"math"
	"sort"
)

// Jenks computes Fisher-Jenks natural breaks: k+1 ascending boundaries that
// minimize the total within-class variance of the sorted values. The first
// boundary is the minimum and the last the maximum. k is clamped to the
// number of values; the result is empty for k <= 0 or no values.
func Jenks(values []float64, k int) []float64 {
	if len(values) == 0 || k <= 0 {
		return nil
	}
	data := append([]float64(nil), values...)
	sort.Float64s(data)
	n := len(data)
	if k > n {
		k = n
	}

	// lower[l][j]: 1-based start of the j-th class of the best split of the
	// first l values. variance[l][j]: its total within-class variance.
	lower := make([][]int, n+1)
	variance := make([][]float64, n+1)
	for l := range lower {
		lower[l] = make([]int, k+1)
		variance[l] = make([]float64, k+1)
	}
	for j := 1; j <= k; j++ {
		lower[0][j] = 1
		for l := 1; l <= n; l++ {
			variance[l][j] = math.Inf(1)
		}
	}

	for l := 1; l <= n; l++ {
		var s1, s2, w, v float64
		for m := l; m >= 1; m-- {
			x := data[m-1]
			s1 += x
			s2 += x * x
			w++
			v = s2 - (s1*s1)/w
			if m > 1 {
				for j := 2; j <= k; j++ {
					if cand := v + variance[m-1][j-1]; variance[l][j] >= cand {
						lower[l][j] = m
						variance[l][j] = cand
					}
				}
			}
		}
		lower[l][1] = 1
		variance[l][1] = v
	}

	breaks := make([]float64, k+1)
	breaks[k] = data[n-1]
	at := n
	for j := k; j >= 2; j-- {
		m := lower[at][j]
		if m < 2 {
			// unreachable for finite input
			return nil
		}
		breaks[j-1] = data[m-2]
		at = m - 1
	}
	breaks[0] = data[0]
	return breaks
}
