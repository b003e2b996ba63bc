package strategy

import (
	"fmt"

	"github.com/evdnx/goti"
	"github.com/evdnx/stratbook/logger"
	"github.com/evdnx/stratbook/types"
)

func init() { register("rsi_reversal", NewRSIReversal) }

// RSIReversal buys when RSI climbs back out of the oversold zone and sells
// when it falls back out of the overbought zone.
type RSIReversal struct {
	*BaseStrategy
	period     *Param[int]
	oversold   *Param[float64]
	overbought *Param[float64]

	rsi  *goti.RelativeStrengthIndex
	zone zone
}

func NewRSIReversal(d Deps) (*RSIReversal, error) {
	base, err := NewBaseStrategy("rsi_reversal", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &RSIReversal{BaseStrategy: base}
	s.period = NewParam(&base.Params, "RSIPeriod", 14, Between(2, 200)).Optimize()
	s.oversold = NewParam(&base.Params, "Oversold", 30.0, Between(0.0, 100.0)).Optimize()
	s.overbought = NewParam(&base.Params, "Overbought", 70.0, Between(0.0, 100.0)).Optimize()
	return s, nil
}

func (s *RSIReversal) OnStarted() error {
	if s.oversold.Get() >= s.overbought.Get() {
		return fmt.Errorf("%w: Oversold must be below Overbought", ErrParamRange)
	}
	ic := goti.DefaultConfig()
	ic.RSIOversold = s.oversold.Get()
	ic.RSIOverbought = s.overbought.Get()
	rsi, err := goti.NewRelativeStrengthIndexWithParams(s.period.Get(), ic)
	if err != nil {
		return fmt.Errorf("rsi: %w", err)
	}
	s.rsi = rsi
	s.zone = zone{lower: s.oversold.Get(), upper: s.overbought.Get()}
	return nil
}

func (s *RSIReversal) OnReseted() {
	s.zone.reset()
	if s.rsi != nil {
		s.rsi.Reset()
	}
}

func (s *RSIReversal) ProcessCandle(c types.Candle) {
	if err := s.rsi.Add(c.Close); err != nil {
		s.Log.Warn("rsi_add_error", logger.Err(err))
		return
	}
	rsi, err := s.rsi.Calculate()
	if err != nil {
		return
	}
	switch s.zone.update(rsi) {
	case 1:
		_ = s.EnterLong("rsi_leaves_oversold")
	case -1:
		_ = s.EnterShort("rsi_leaves_overbought")
	}
}
