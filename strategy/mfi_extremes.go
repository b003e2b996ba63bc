package strategy

import (
	"fmt"

	"github.com/evdnx/goti"
	"github.com/evdnx/stratbook/logger"
	"github.com/evdnx/stratbook/types"
)

func init() { register("mfi_extremes", NewMFIExtremes) }

// MFIExtremes is the volume weighted twin of RSIReversal: it trades the
// Money Flow Index leaving its oversold or overbought zone.
type MFIExtremes struct {
	*BaseStrategy
	period     *Param[int]
	oversold   *Param[float64]
	overbought *Param[float64]

	mfi  *goti.MoneyFlowIndex
	zone zone
}

func NewMFIExtremes(d Deps) (*MFIExtremes, error) {
	base, err := NewBaseStrategy("mfi_extremes", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &MFIExtremes{BaseStrategy: base}
	s.period = NewParam(&base.Params, "MFIPeriod", 14, Between(2, 200)).Optimize()
	s.oversold = NewParam(&base.Params, "Oversold", 20.0, Between(0.0, 100.0))
	s.overbought = NewParam(&base.Params, "Overbought", 80.0, Between(0.0, 100.0))
	return s, nil
}

func (s *MFIExtremes) OnStarted() error {
	if s.oversold.Get() >= s.overbought.Get() {
		return fmt.Errorf("%w: Oversold must be below Overbought", ErrParamRange)
	}
	ic := goti.DefaultConfig()
	ic.MFIOversold = s.oversold.Get()
	ic.MFIOverbought = s.overbought.Get()
	mfi, err := goti.NewMoneyFlowIndexWithParams(s.period.Get(), ic)
	if err != nil {
		return fmt.Errorf("mfi: %w", err)
	}
	s.mfi = mfi
	s.zone = zone{lower: s.oversold.Get(), upper: s.overbought.Get()}
	return nil
}

func (s *MFIExtremes) OnReseted() {
	s.zone.reset()
	if s.mfi != nil {
		s.mfi.Reset()
	}
}

func (s *MFIExtremes) ProcessCandle(c types.Candle) {
	if err := s.mfi.Add(c.High, c.Low, c.Close, c.Volume); err != nil {
		s.Log.Warn("mfi_add_error", logger.Err(err))
		return
	}
	mfi, err := s.mfi.Calculate()
	if err != nil {
		return
	}
	switch s.zone.update(mfi) {
	case 1:
		_ = s.EnterLong("mfi_leaves_oversold")
	case -1:
		_ = s.EnterShort("mfi_leaves_overbought")
	}
}
