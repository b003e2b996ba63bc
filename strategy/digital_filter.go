package strategy

import (
	"github.com/evdnx/stratbook/indicator"
	"github.com/evdnx/stratbook/types"
)

func init() { register("digital_filter", NewDigitalFilter) }

// DigitalFilter trades turns of a two-pole super smoother: the filter
// turning up opens a long, turning down opens a short.
type DigitalFilter struct {
	*BaseStrategy
	period *Param[int]

	filter *indicator.SuperSmoother
	slope  crossing
}

func NewDigitalFilter(d Deps) (*DigitalFilter, error) {
	base, err := NewBaseStrategy("digital_filter", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &DigitalFilter{BaseStrategy: base}
	s.period = NewParam(&base.Params, "Period", 10, Between(2, 200)).Optimize()
	return s, nil
}

func (s *DigitalFilter) OnStarted() error {
	s.filter = indicator.NewSuperSmoother(s.period.Get())
	return nil
}

func (s *DigitalFilter) OnReseted() { s.slope.reset() }

func (s *DigitalFilter) ProcessCandle(c types.Candle) {
	s.filter.Process(c.Close)
	if !s.filter.Ready() {
		return
	}
	switch s.slope.update(s.filter.Value(), s.filter.Prev()) {
	case 1:
		_ = s.EnterLong("filter_turn_up")
	case -1:
		_ = s.EnterShort("filter_turn_down")
	}
}
