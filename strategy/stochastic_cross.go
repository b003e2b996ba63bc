package strategy

import (
	"fmt"

	"github.com/evdnx/stratbook/indicator"
	"github.com/evdnx/stratbook/types"
)

func init() { register("stochastic_cross", NewStochasticCross) }

// StochasticCross buys %K crossing above %D inside the oversold zone and
// sells %K crossing below %D inside the overbought zone.
type StochasticCross struct {
	*BaseStrategy
	kPeriod    *Param[int]
	slowing    *Param[int]
	dPeriod    *Param[int]
	oversold   *Param[float64]
	overbought *Param[float64]

	series *indicator.Series
	cross  crossing
}

func NewStochasticCross(d Deps) (*StochasticCross, error) {
	base, err := NewBaseStrategy("stochastic_cross", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &StochasticCross{BaseStrategy: base}
	s.kPeriod = NewParam(&base.Params, "KPeriod", 14, Between(1, 200)).Optimize()
	s.slowing = NewParam(&base.Params, "Slowing", 3, Between(1, 50))
	s.dPeriod = NewParam(&base.Params, "DPeriod", 3, Between(1, 50)).Optimize()
	s.oversold = NewParam(&base.Params, "Oversold", 20.0, Between(0.0, 100.0))
	s.overbought = NewParam(&base.Params, "Overbought", 80.0, Between(0.0, 100.0))
	return s, nil
}

func (s *StochasticCross) OnStarted() error {
	if s.oversold.Get() >= s.overbought.Get() {
		return fmt.Errorf("%w: Oversold must be below Overbought", ErrParamRange)
	}
	s.series = indicator.NewSeries(2 * (s.kPeriod.Get() + s.slowing.Get() + s.dPeriod.Get()))
	return nil
}

func (s *StochasticCross) OnReseted() { s.cross.reset() }

func (s *StochasticCross) ProcessCandle(c types.Candle) {
	s.series.Add(c)
	k, d, ok := s.series.Stochastic(s.kPeriod.Get(), s.slowing.Get(), s.dPeriod.Get())
	if !ok {
		return
	}
	switch s.cross.update(k, d) {
	case 1:
		if k < s.oversold.Get() {
			_ = s.EnterLong("stoch_cross_up")
		}
	case -1:
		if k > s.overbought.Get() {
			_ = s.EnterShort("stoch_cross_down")
		}
	}
}
