package strategy

import (
	"fmt"

	"github.com/evdnx/stratbook/indicator"
	"github.com/evdnx/stratbook/types"
)

func init() { register("sma_crossover", NewSMACrossover) }

// SMACrossover goes long when the fast SMA crosses above the slow SMA and
// reverses on the opposite cross.
type SMACrossover struct {
	*BaseStrategy
	fastPeriod *Param[int]
	slowPeriod *Param[int]

	fast, slow *indicator.SMA
	cross      crossing
}

func NewSMACrossover(d Deps) (*SMACrossover, error) {
	base, err := NewBaseStrategy("sma_crossover", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &SMACrossover{BaseStrategy: base}
	s.fastPeriod = NewParam(&base.Params, "FastPeriod", 10, Between(1, 500)).Optimize()
	s.slowPeriod = NewParam(&base.Params, "SlowPeriod", 30, Between(2, 1000)).Optimize()
	return s, nil
}

func (s *SMACrossover) OnStarted() error {
	if s.fastPeriod.Get() >= s.slowPeriod.Get() {
		return fmt.Errorf("%w: FastPeriod must be below SlowPeriod", ErrParamRange)
	}
	s.fast = indicator.NewSMA(s.fastPeriod.Get())
	s.slow = indicator.NewSMA(s.slowPeriod.Get())
	return nil
}

func (s *SMACrossover) OnReseted() { s.cross.reset() }

func (s *SMACrossover) ProcessCandle(c types.Candle) {
	fast := s.fast.Process(c.Close)
	slow := s.slow.Process(c.Close)
	if !s.slow.Ready() {
		return
	}
	switch s.cross.update(fast, slow) {
	case 1:
		_ = s.EnterLong("sma_cross_up")
	case -1:
		_ = s.EnterShort("sma_cross_down")
	}
}
