package strategy

import (
	"github.com/evdnx/stratbook/types"
)

func init() { register("volatility_breakout", NewVolatilityBreakout) }

// VolatilityBreakout measures the previous bar's range and enters when the
// close runs K ranges away from the current open.
type VolatilityBreakout struct {
	*BaseStrategy
	k *Param[float64]

	prevRange float64
	primed    bool
}

func NewVolatilityBreakout(d Deps) (*VolatilityBreakout, error) {
	base, err := NewBaseStrategy("volatility_breakout", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &VolatilityBreakout{BaseStrategy: base}
	s.k = NewParam(&base.Params, "K", 0.5, Between(0.01, 10.0)).Optimize()
	return s, nil
}

func (s *VolatilityBreakout) OnReseted() { s.prevRange, s.primed = 0, false }

func (s *VolatilityBreakout) ProcessCandle(c types.Candle) {
	prev, primed := s.prevRange, s.primed
	s.prevRange, s.primed = c.Range(), true
	if !primed || prev <= 0 {
		return
	}
	band := s.k.Get() * prev
	switch {
	case c.Close > c.Open+band:
		_ = s.EnterLong("range_break_up")
	case c.Close < c.Open-band:
		_ = s.EnterShort("range_break_down")
	}
}
