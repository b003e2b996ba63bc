package strategy

import (
	"fmt"
	"math"

	"github.com/evdnx/stratbook/stats"
	"github.com/evdnx/stratbook/types"
)

func init() { register("zscore_reversion", NewZScoreReversion) }

// ZScoreReversion fades closes more than EntryZ standard deviations from
// the rolling mean and exits once the z-score is back inside ExitZ.
type ZScoreReversion struct {
	*BaseStrategy
	period *Param[int]
	entryZ *Param[float64]
	exitZ  *Param[float64]
}

func NewZScoreReversion(d Deps) (*ZScoreReversion, error) {
	base, err := NewBaseStrategy("zscore_reversion", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &ZScoreReversion{BaseStrategy: base}
	s.period = NewParam(&base.Params, "Period", 20, Between(3, defaultHistory)).Optimize()
	s.entryZ = NewParam(&base.Params, "EntryZ", 2.0, Between(0.1, 10.0)).Optimize()
	s.exitZ = NewParam(&base.Params, "ExitZ", 0.5, Between(0.0, 10.0)).Optimize()
	return s, nil
}

func (s *ZScoreReversion) OnStarted() error {
	if s.exitZ.Get() >= s.entryZ.Get() {
		return fmt.Errorf("%w: ExitZ must be below EntryZ", ErrParamRange)
	}
	return nil
}

func (s *ZScoreReversion) ProcessCandle(c types.Candle) {
	closes := s.Closes(s.period.Get())
	if closes == nil {
		return
	}
	z := stats.ZScore(closes)
	pos := s.Position()
	switch {
	case z < -s.entryZ.Get() && pos <= 0:
		_ = s.EnterLong("zscore_low")
	case z > s.entryZ.Get() && pos >= 0:
		_ = s.EnterShort("zscore_high")
	case pos != 0 && math.Abs(z) < s.exitZ.Get():
		_ = s.ClosePosition("zscore_mean")
	}
}
