package strategy

import (
	"fmt"

	"github.com/evdnx/stratbook/indicator"
	"github.com/evdnx/stratbook/types"
)

func init() { register("macd_signal", NewMACDSignal) }

// MACDSignal trades MACD crossing its signal line. With ZeroLineFilter only
// crosses below zero are bought and crosses above zero sold.
type MACDSignal struct {
	*BaseStrategy
	fastPeriod   *Param[int]
	slowPeriod   *Param[int]
	signalPeriod *Param[int]
	zeroFilter   *Param[bool]

	series *indicator.Series
	cross  crossing
}

func NewMACDSignal(d Deps) (*MACDSignal, error) {
	base, err := NewBaseStrategy("macd_signal", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &MACDSignal{BaseStrategy: base}
	s.fastPeriod = NewParam(&base.Params, "FastPeriod", 12, Between(2, 200)).Optimize()
	s.slowPeriod = NewParam(&base.Params, "SlowPeriod", 26, Between(3, 400)).Optimize()
	s.signalPeriod = NewParam(&base.Params, "SignalPeriod", 9, Between(1, 100)).Optimize()
	s.zeroFilter = NewParam(&base.Params, "ZeroLineFilter", false)
	return s, nil
}

func (s *MACDSignal) OnStarted() error {
	if s.fastPeriod.Get() >= s.slowPeriod.Get() {
		return fmt.Errorf("%w: FastPeriod must be below SlowPeriod", ErrParamRange)
	}
	s.series = indicator.NewSeries(6 * (s.slowPeriod.Get() + s.signalPeriod.Get()))
	return nil
}

func (s *MACDSignal) OnReseted() { s.cross.reset() }

func (s *MACDSignal) ProcessCandle(c types.Candle) {
	s.series.Add(c)
	macd, signal, _, ok := s.series.MACD(s.fastPeriod.Get(), s.slowPeriod.Get(), s.signalPeriod.Get())
	if !ok {
		return
	}
	filter := s.zeroFilter.Get()
	switch s.cross.update(macd, signal) {
	case 1:
		if !filter || macd < 0 {
			_ = s.EnterLong("macd_cross_up")
		}
	case -1:
		if !filter || macd > 0 {
			_ = s.EnterShort("macd_cross_down")
		}
	}
}
