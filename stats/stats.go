// Package stats has the small numeric helpers the statistical strategies
// evaluate over their rolling windows.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}

// Variance is the unbiased sample variance; 0 for fewer than two values.
func Variance(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	return stat.Variance(x, nil)
}

func StdDev(x []float64) float64 { return math.Sqrt(Variance(x)) }

// Skewness is the sample skewness; 0 when undefined (n < 3 or no spread).
func Skewness(x []float64) float64 {
	if len(x) < 3 || StdDev(x) == 0 {
		return 0
	}
	return stat.Skew(x, nil)
}

// Kurtosis is the excess kurtosis; 0 when undefined.
func Kurtosis(x []float64) float64 {
	if len(x) < 4 || StdDev(x) == 0 {
		return 0
	}
	return stat.ExKurtosis(x, nil)
}

// ZScore of the last value against the whole sample.
func ZScore(x []float64) float64 {
	sd := StdDev(x)
	if sd == 0 {
		return 0
	}
	return (x[len(x)-1] - Mean(x)) / sd
}

// Ranks assigns 1-based ranks; tied values share their average rank.
func Ranks(x []float64) []float64 {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })

	ranks := make([]float64, len(x))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && x[idx[j+1]] == x[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}
	return ranks
}

// Pearson correlation; 0 when either side has no variance.
func Pearson(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 || StdDev(x) == 0 || StdDev(y) == 0 {
		return 0
	}
	return stat.Correlation(x, y, nil)
}

// Spearman is the Pearson correlation of the ranks of x and y.
func Spearman(x, y []float64) float64 {
	if len(x) != len(y) {
		return 0
	}
	return Pearson(Ranks(x), Ranks(y))
}

// TimeIndex returns 1..n, the rank series of bar order.
func TimeIndex(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

// LogReturns converts prices into log returns; non-positive prices are skipped.
func LogReturns(prices []float64) []float64 {
	var out []float64
	for i := 1; i < len(prices); i++ {
		if prices[i-1] <= 0 || prices[i] <= 0 {
			continue
		}
		out = append(out, math.Log(prices[i]/prices[i-1]))
	}
	return out
}
