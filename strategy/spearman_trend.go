package strategy

import (
	"github.com/evdnx/stratbook/stats"
	"github.com/evdnx/stratbook/types"
)

func init() { register("spearman_trend", NewSpearmanTrend) }

// SpearmanTrend ranks the last Period closes against time. A correlation
// above Threshold is an uptrend, below -Threshold a downtrend; a position is
// closed when the correlation changes sign.
type SpearmanTrend struct {
	*BaseStrategy
	period    *Param[int]
	threshold *Param[float64]
}

func NewSpearmanTrend(d Deps) (*SpearmanTrend, error) {
	base, err := NewBaseStrategy("spearman_trend", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &SpearmanTrend{BaseStrategy: base}
	s.period = NewParam(&base.Params, "Period", 20, Between(3, defaultHistory)).Optimize()
	s.threshold = NewParam(&base.Params, "Threshold", 0.8, Between(0.0, 1.0)).Optimize()
	return s, nil
}

func (s *SpearmanTrend) ProcessCandle(c types.Candle) {
	closes := s.Closes(s.period.Get())
	if closes == nil {
		return
	}
	rho := stats.Spearman(stats.TimeIndex(len(closes)), closes)
	pos := s.Position()
	switch {
	case rho > s.threshold.Get() && pos <= 0:
		_ = s.EnterLong("rank_uptrend")
	case rho < -s.threshold.Get() && pos >= 0:
		_ = s.EnterShort("rank_downtrend")
	case pos > 0 && rho < 0, pos < 0 && rho > 0:
		_ = s.ClosePosition("rank_trend_faded")
	}
}
