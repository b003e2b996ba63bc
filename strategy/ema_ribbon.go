package strategy

import (
	"fmt"

	"github.com/evdnx/stratbook/indicator"
	"github.com/evdnx/stratbook/types"
)

func init() { register("ema_ribbon", NewEMARibbon) }

// EMARibbon trades the alignment of three EMAs: fast > mid > slow is an
// uptrend, the reverse order a downtrend. Entries happen when the alignment
// changes; a tangled ribbon keeps the current position.
type EMARibbon struct {
	*BaseStrategy
	fastPeriod *Param[int]
	midPeriod  *Param[int]
	slowPeriod *Param[int]

	fast, mid, slow *indicator.EMA
	state           int
}

func NewEMARibbon(d Deps) (*EMARibbon, error) {
	base, err := NewBaseStrategy("ema_ribbon", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &EMARibbon{BaseStrategy: base}
	s.fastPeriod = NewParam(&base.Params, "FastPeriod", 8, Between(1, 200)).Optimize()
	s.midPeriod = NewParam(&base.Params, "MidPeriod", 21, Between(2, 400)).Optimize()
	s.slowPeriod = NewParam(&base.Params, "SlowPeriod", 55, Between(3, 800)).Optimize()
	return s, nil
}

func (s *EMARibbon) OnStarted() error {
	if !(s.fastPeriod.Get() < s.midPeriod.Get() && s.midPeriod.Get() < s.slowPeriod.Get()) {
		return fmt.Errorf("%w: periods must increase fast < mid < slow", ErrParamRange)
	}
	s.fast = indicator.NewEMA(s.fastPeriod.Get())
	s.mid = indicator.NewEMA(s.midPeriod.Get())
	s.slow = indicator.NewEMA(s.slowPeriod.Get())
	return nil
}

func (s *EMARibbon) OnReseted() { s.state = 0 }

func (s *EMARibbon) ProcessCandle(c types.Candle) {
	f := s.fast.Process(c.Close)
	m := s.mid.Process(c.Close)
	sl := s.slow.Process(c.Close)
	if !s.slow.Ready() {
		return
	}
	state := 0
	switch {
	case f > m && m > sl:
		state = 1
	case f < m && m < sl:
		state = -1
	}
	if state == 0 || state == s.state {
		return
	}
	s.state = state
	if state > 0 {
		_ = s.EnterLong("ribbon_up")
	} else {
		_ = s.EnterShort("ribbon_down")
	}
}
