package strategy

import (
	"github.com/evdnx/stratbook/indicator"
	"github.com/evdnx/stratbook/types"
)

func init() { register("rsi_divergence", NewRSIDivergence) }

// RSIDivergence looks for a lower price low printed with a higher RSI (buy)
// and a higher price high printed with a lower RSI (sell). A close at the
// extreme of the last Lookback closes counts as a new low or high.
type RSIDivergence struct {
	*BaseStrategy
	period   *Param[int]
	lookback *Param[int]

	series *indicator.Series
	lows   *indicator.Lowest
	highs  *indicator.Highest
	swings swingTracker
}

func NewRSIDivergence(d Deps) (*RSIDivergence, error) {
	base, err := NewBaseStrategy("rsi_divergence", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &RSIDivergence{BaseStrategy: base}
	s.period = NewParam(&base.Params, "RSIPeriod", 14, Between(2, 200)).Optimize()
	s.lookback = NewParam(&base.Params, "Lookback", 20, Between(2, 500)).Optimize()
	return s, nil
}

func (s *RSIDivergence) OnStarted() error {
	s.series = indicator.NewSeries(10 * s.period.Get())
	s.lows = indicator.NewLowest(s.lookback.Get())
	s.highs = indicator.NewHighest(s.lookback.Get())
	return nil
}

func (s *RSIDivergence) OnReseted() { s.swings.reset() }

func (s *RSIDivergence) ProcessCandle(c types.Candle) {
	s.series.Add(c)
	low := s.lows.Process(c.Close)
	high := s.highs.Process(c.Close)
	rsi, ok := s.series.RSI(s.period.Get())
	if !ok {
		return
	}
	if c.Close <= low && s.swings.onLow(c.Close, rsi) {
		_ = s.EnterLong("rsi_bullish_divergence")
	}
	if c.Close >= high && s.swings.onHigh(c.Close, rsi) {
		_ = s.EnterShort("rsi_bearish_divergence")
	}
}
