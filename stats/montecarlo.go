package stats

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// MonteCarlo bootstraps historical log returns into random future paths.
type MonteCarlo struct {
	paths   int
	horizon int
	rng     *rand.Rand
}

// Projection summarises the simulated horizon log returns.
type Projection struct {
	ProbUp float64 // share of paths ending above the start
	Mean   float64
	P05    float64
	P95    float64
}

func NewMonteCarlo(paths, horizon int, seed int64) *MonteCarlo {
	if paths < 1 {
		paths = 1
	}
	if horizon < 1 {
		horizon = 1
	}
	return &MonteCarlo{paths: paths, horizon: horizon, rng: rand.New(rand.NewSource(seed))}
}

// Simulate draws horizon returns with replacement for every path.
func (m *MonteCarlo) Simulate(returns []float64) Projection {
	if len(returns) == 0 {
		return Projection{}
	}
	terminal := make([]float64, m.paths)
	up := 0
	for p := range terminal {
		sum := 0.0
		for h := 0; h < m.horizon; h++ {
			sum += returns[m.rng.Intn(len(returns))]
		}
		terminal[p] = sum
		if sum > 0 {
			up++
		}
	}
	sort.Float64s(terminal)
	return Projection{
		ProbUp: float64(up) / float64(m.paths),
		Mean:   stat.Mean(terminal, nil),
		P05:    stat.Quantile(0.05, stat.Empirical, terminal, nil),
		P95:    stat.Quantile(0.95, stat.Empirical, terminal, nil),
	}
}
