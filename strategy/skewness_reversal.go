package strategy

import (
	"github.com/evdnx/stratbook/stats"
	"github.com/evdnx/stratbook/types"
)

func init() { register("skewness_reversal", NewSkewnessReversal) }

// SkewnessReversal measures the skewness of recent log returns. A strongly
// negative skew (a sell-off tail) is bought, a strongly positive one sold.
type SkewnessReversal struct {
	*BaseStrategy
	period    *Param[int]
	threshold *Param[float64]
}

func NewSkewnessReversal(d Deps) (*SkewnessReversal, error) {
	base, err := NewBaseStrategy("skewness_reversal", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &SkewnessReversal{BaseStrategy: base}
	s.period = NewParam(&base.Params, "Period", 20, Between(4, defaultHistory-1)).Optimize()
	s.threshold = NewParam(&base.Params, "Threshold", 1.0, Positive[float64]()).Optimize()
	return s, nil
}

func (s *SkewnessReversal) ProcessCandle(c types.Candle) {
	closes := s.Closes(s.period.Get() + 1)
	if closes == nil {
		return
	}
	skew := stats.Skewness(stats.LogReturns(closes))
	switch {
	case skew < -s.threshold.Get():
		_ = s.EnterLong("negative_skew")
	case skew > s.threshold.Get():
		_ = s.EnterShort("positive_skew")
	}
}
