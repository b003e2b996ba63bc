package strategy

import (
	"github.com/evdnx/stratbook/indicator"
	"github.com/evdnx/stratbook/types"
)

func init() { register("heikin_ashi", NewHeikinAshi) }

// HeikinAshi reverses on a change of Heikin-Ashi candle color. With
// ConfirmBars > 1 the new color must repeat before the entry.
type HeikinAshi struct {
	*BaseStrategy
	confirm *Param[int]

	ha     indicator.HeikinAshi
	color  int
	streak int
	traded int
}

func NewHeikinAshi(d Deps) (*HeikinAshi, error) {
	base, err := NewBaseStrategy("heikin_ashi", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &HeikinAshi{BaseStrategy: base}
	s.confirm = NewParam(&base.Params, "ConfirmBars", 1, Between(1, 10))
	return s, nil
}

func (s *HeikinAshi) OnReseted() {
	s.ha.Reset()
	s.color, s.streak, s.traded = 0, 0, 0
}

func (s *HeikinAshi) ProcessCandle(c types.Candle) {
	ha := s.ha.Process(c)
	color := 0
	switch {
	case ha.IsBullish():
		color = 1
	case ha.IsBearish():
		color = -1
	default:
		return
	}
	if color == s.color {
		s.streak++
	} else {
		first := s.color == 0
		s.color, s.streak = color, 1
		if first {
			s.traded = color
			return
		}
	}
	if s.streak < s.confirm.Get() || s.traded == color {
		return
	}
	s.traded = color
	if color > 0 {
		_ = s.EnterLong("ha_bullish")
	} else {
		_ = s.EnterShort("ha_bearish")
	}
}
