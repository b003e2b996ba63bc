package strategy

import (
	"fmt"

	"github.com/evdnx/stratbook/stats"
	"github.com/evdnx/stratbook/types"
)

func init() { register("monte_carlo", NewMonteCarlo) }

// MonteCarlo bootstraps the last Lookback log returns into Paths random
// futures of Horizon bars and trades the probability of a positive outcome.
type MonteCarlo struct {
	*BaseStrategy
	lookback  *Param[int]
	horizon   *Param[int]
	paths     *Param[int]
	seed      *Param[int]
	threshold *Param[float64]

	sim  *stats.MonteCarlo
	last stats.Projection
}

func NewMonteCarlo(d Deps) (*MonteCarlo, error) {
	base, err := NewBaseStrategy("monte_carlo", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &MonteCarlo{BaseStrategy: base}
	s.lookback = NewParam(&base.Params, "Lookback", 60, Between(5, defaultHistory-1)).Optimize()
	s.horizon = NewParam(&base.Params, "Horizon", 10, Between(1, 500)).Optimize()
	s.paths = NewParam(&base.Params, "Paths", 500, Between(10, 100000))
	s.seed = NewParam(&base.Params, "Seed", 42)
	s.threshold = NewParam(&base.Params, "Probability", 0.6, Between(0.5, 1.0)).Optimize()
	return s, nil
}

func (s *MonteCarlo) OnStarted() error {
	if s.paths.Get() <= 0 {
		return fmt.Errorf("%w: Paths must be positive", ErrParamRange)
	}
	s.sim = stats.NewMonteCarlo(s.paths.Get(), s.horizon.Get(), int64(s.seed.Get()))
	return nil
}

func (s *MonteCarlo) OnReseted() { s.last = stats.Projection{} }

// LastProjection is the most recent simulation result.
func (s *MonteCarlo) LastProjection() stats.Projection { return s.last }

func (s *MonteCarlo) ProcessCandle(c types.Candle) {
	closes := s.Closes(s.lookback.Get() + 1)
	if closes == nil {
		return
	}
	s.last = s.sim.Simulate(stats.LogReturns(closes))
	p := s.threshold.Get()
	switch {
	case s.last.ProbUp >= p:
		_ = s.EnterLong("mc_upside")
	case s.last.ProbUp <= 1-p:
		_ = s.EnterShort("mc_downside")
	}
}
