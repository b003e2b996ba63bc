package strategy

import (
	"github.com/evdnx/stratbook/indicator"
	"github.com/evdnx/stratbook/types"
)

func init() { register("three_soldiers", NewThreeSoldiers) }

// ThreeSoldiers buys three white soldiers (three rising bullish bodies) and
// sells three black crows.
type ThreeSoldiers struct {
	*BaseStrategy
	minBody *Param[float64]

	closes *indicator.Window
	dirs   *indicator.Window
}

func NewThreeSoldiers(d Deps) (*ThreeSoldiers, error) {
	base, err := NewBaseStrategy("three_soldiers", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &ThreeSoldiers{BaseStrategy: base}
	s.minBody = NewParam(&base.Params, "MinBodyRatio", 0.3, Between(0.0, 1.0)).
		Describe("minimum body to range ratio of each bar")
	return s, nil
}

func (s *ThreeSoldiers) OnStarted() error {
	s.closes = indicator.NewWindow(3)
	s.dirs = indicator.NewWindow(3)
	return nil
}

func (s *ThreeSoldiers) ProcessCandle(c types.Candle) {
	dir := 0.0
	if r := c.Range(); r > 0 && c.Body()/r >= s.minBody.Get() {
		switch {
		case c.IsBullish():
			dir = 1
		case c.IsBearish():
			dir = -1
		}
	}
	s.closes.Push(c.Close)
	s.dirs.Push(dir)
	if !s.dirs.Full() {
		return
	}
	rising := s.closes.At(0) < s.closes.At(1) && s.closes.At(1) < s.closes.At(2)
	falling := s.closes.At(0) > s.closes.At(1) && s.closes.At(1) > s.closes.At(2)
	switch {
	case s.dirs.Sum() == 3 && rising:
		_ = s.EnterLong("three_white_soldiers")
	case s.dirs.Sum() == -3 && falling:
		_ = s.EnterShort("three_black_crows")
	}
}
