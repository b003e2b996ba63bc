package strategy

import (
	"github.com/evdnx/stratbook/types"
)

func init() { register("inside_bar", NewInsideBar) }

// InsideBar waits for a bar contained in its predecessor and trades the
// first later close outside that inside bar's range.
type InsideBar struct {
	*BaseStrategy

	prev  types.Candle
	setup types.Candle
	bars  int
	armed bool
}

func NewInsideBar(d Deps) (*InsideBar, error) {
	base, err := NewBaseStrategy("inside_bar", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	return &InsideBar{BaseStrategy: base}, nil
}

func (s *InsideBar) OnReseted() {
	s.prev, s.setup = types.Candle{}, types.Candle{}
	s.bars, s.armed = 0, false
}

func (s *InsideBar) ProcessCandle(c types.Candle) {
	if s.armed {
		switch {
		case c.Close > s.setup.High:
			s.armed = false
			_ = s.EnterLong("inside_break_up")
		case c.Close < s.setup.Low:
			s.armed = false
			_ = s.EnterShort("inside_break_down")
		}
	}
	if s.bars > 0 && c.High < s.prev.High && c.Low > s.prev.Low {
		s.setup, s.armed = c, true
	}
	s.prev = c
	s.bars++
}
