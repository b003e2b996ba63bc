package strategy

import (
	"fmt"
	"time"

	"github.com/evdnx/stratbook/indicator"
	"github.com/evdnx/stratbook/types"
)

func init() { register("multi_timeframe_ma", NewMultiTimeframeMA) }

// MultiTimeframeMA takes EMA crosses on the working timeframe only in the
// direction of the higher timeframe trend (close versus its SMA).
type MultiTimeframeMA struct {
	*BaseStrategy
	higherTimeframe *Param[time.Duration]
	trendPeriod     *Param[int]
	fastPeriod      *Param[int]
	slowPeriod      *Param[int]

	trend      *indicator.SMA
	fast, slow *indicator.EMA
	trendDir   int
	cross      crossing
}

func NewMultiTimeframeMA(d Deps) (*MultiTimeframeMA, error) {
	base, err := NewBaseStrategy("multi_timeframe_ma", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &MultiTimeframeMA{BaseStrategy: base}
	s.higherTimeframe = NewParam(&base.Params, "HigherTimeframe", time.Hour, Positive[time.Duration]())
	s.trendPeriod = NewParam(&base.Params, "TrendPeriod", 20, Between(1, 500)).Optimize()
	s.fastPeriod = NewParam(&base.Params, "FastPeriod", 5, Between(1, 200)).Optimize()
	s.slowPeriod = NewParam(&base.Params, "SlowPeriod", 20, Between(2, 500)).Optimize()
	return s, nil
}

func (s *MultiTimeframeMA) Subscriptions() []types.Subscription {
	return []types.Subscription{
		{Symbol: s.Symbol, Timeframe: s.Timeframe()},
		{Symbol: s.Symbol, Timeframe: s.higherTimeframe.Get()},
	}
}

func (s *MultiTimeframeMA) OnStarted() error {
	if s.higherTimeframe.Get() <= s.Timeframe() {
		return fmt.Errorf("%w: HigherTimeframe must exceed CandleTimeframe", ErrParamRange)
	}
	if s.fastPeriod.Get() >= s.slowPeriod.Get() {
		return fmt.Errorf("%w: FastPeriod must be below SlowPeriod", ErrParamRange)
	}
	s.trend = indicator.NewSMA(s.trendPeriod.Get())
	s.fast = indicator.NewEMA(s.fastPeriod.Get())
	s.slow = indicator.NewEMA(s.slowPeriod.Get())
	return nil
}

func (s *MultiTimeframeMA) OnReseted() {
	s.trendDir = 0
	s.cross.reset()
}

// TrendDirection is +1, -1 or 0 while the higher timeframe SMA warms up.
func (s *MultiTimeframeMA) TrendDirection() int { return s.trendDir }

func (s *MultiTimeframeMA) ProcessCandle(c types.Candle) {
	if c.Timeframe == s.higherTimeframe.Get() {
		sma := s.trend.Process(c.Close)
		if !s.trend.Ready() {
			return
		}
		switch {
		case c.Close > sma:
			s.trendDir = 1
		case c.Close < sma:
			s.trendDir = -1
		}
		return
	}

	fast := s.fast.Process(c.Close)
	slow := s.slow.Process(c.Close)
	if !s.slow.Ready() {
		return
	}
	switch s.cross.update(fast, slow) {
	case 1:
		if s.trendDir > 0 {
			_ = s.EnterLong("mtf_long")
		}
	case -1:
		if s.trendDir < 0 {
			_ = s.EnterShort("mtf_short")
		}
	}
}
