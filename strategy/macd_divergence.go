package strategy

import (
	"github.com/evdnx/stratbook/indicator"
	"github.com/evdnx/stratbook/types"
)

func init() { register("macd_divergence", NewMACDDivergence) }

// MACDDivergence compares the MACD histogram at successive price extremes:
// a lower low with a shallower histogram trough buys, a higher high with a
// lower histogram peak sells.
type MACDDivergence struct {
	*BaseStrategy
	fastPeriod   *Param[int]
	slowPeriod   *Param[int]
	signalPeriod *Param[int]
	lookback     *Param[int]

	series *indicator.Series
	lows   *indicator.Lowest
	highs  *indicator.Highest
	swings swingTracker
}

func NewMACDDivergence(d Deps) (*MACDDivergence, error) {
	base, err := NewBaseStrategy("macd_divergence", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &MACDDivergence{BaseStrategy: base}
	s.fastPeriod = NewParam(&base.Params, "FastPeriod", 12, Between(2, 200))
	s.slowPeriod = NewParam(&base.Params, "SlowPeriod", 26, Between(3, 400))
	s.signalPeriod = NewParam(&base.Params, "SignalPeriod", 9, Between(1, 100))
	s.lookback = NewParam(&base.Params, "Lookback", 30, Between(2, 500)).Optimize()
	return s, nil
}

func (s *MACDDivergence) OnStarted() error {
	s.series = indicator.NewSeries(6 * (s.slowPeriod.Get() + s.signalPeriod.Get()))
	s.lows = indicator.NewLowest(s.lookback.Get())
	s.highs = indicator.NewHighest(s.lookback.Get())
	return nil
}

func (s *MACDDivergence) OnReseted() { s.swings.reset() }

func (s *MACDDivergence) ProcessCandle(c types.Candle) {
	s.series.Add(c)
	low := s.lows.Process(c.Close)
	high := s.highs.Process(c.Close)
	_, _, hist, ok := s.series.MACD(s.fastPeriod.Get(), s.slowPeriod.Get(), s.signalPeriod.Get())
	if !ok {
		return
	}
	if c.Close <= low && s.swings.onLow(c.Close, hist) {
		_ = s.EnterLong("macd_bullish_divergence")
	}
	if c.Close >= high && s.swings.onHigh(c.Close, hist) {
		_ = s.EnterShort("macd_bearish_divergence")
	}
}
