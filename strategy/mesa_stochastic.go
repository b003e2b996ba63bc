package strategy

import (
	"github.com/evdnx/stratbook/indicator"
	"github.com/evdnx/stratbook/types"
)

func init() { register("mesa_stochastic", NewMESAStochastic) }

// MESAStochastic trades Ehlers' roofing-filtered stochastic crossing its
// trigger line (the same oscillator two bars earlier).
type MESAStochastic struct {
	*BaseStrategy
	length   *Param[int]
	highPass *Param[int]
	lowPass  *Param[int]

	mesa  *indicator.MESAStochastic
	cross crossing
}

func NewMESAStochastic(d Deps) (*MESAStochastic, error) {
	base, err := NewBaseStrategy("mesa_stochastic", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &MESAStochastic{BaseStrategy: base}
	s.length = NewParam(&base.Params, "Length", 20, Between(2, 200)).Optimize()
	s.highPass = NewParam(&base.Params, "HighPassPeriod", 48, Between(2, 500))
	s.lowPass = NewParam(&base.Params, "LowPassPeriod", 10, Between(2, 200))
	return s, nil
}

func (s *MESAStochastic) OnStarted() error {
	s.mesa = indicator.NewMESAStochastic(s.length.Get(), s.highPass.Get(), s.lowPass.Get())
	return nil
}

func (s *MESAStochastic) OnReseted() { s.cross.reset() }

func (s *MESAStochastic) ProcessCandle(c types.Candle) {
	s.mesa.Process(c.Close)
	if !s.mesa.Ready() {
		return
	}
	switch s.cross.update(s.mesa.Value(), s.mesa.Trigger()) {
	case 1:
		_ = s.EnterLong("mesa_cross_up")
	case -1:
		_ = s.EnterShort("mesa_cross_down")
	}
}
