package strategy

import (
	"github.com/evdnx/stratbook/indicator"
	"github.com/evdnx/stratbook/types"
)

func init() { register("keltner_breakout", NewKeltnerBreakout) }

// KeltnerBreakout trades closes outside EMA ± Multiplier·ATR and exits when
// price returns through the EMA.
type KeltnerBreakout struct {
	*BaseStrategy
	emaPeriod  *Param[int]
	atrPeriod  *Param[int]
	multiplier *Param[float64]

	ema    *indicator.EMA
	series *indicator.Series
}

func NewKeltnerBreakout(d Deps) (*KeltnerBreakout, error) {
	base, err := NewBaseStrategy("keltner_breakout", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &KeltnerBreakout{BaseStrategy: base}
	s.emaPeriod = NewParam(&base.Params, "EMAPeriod", 20, Between(1, 500)).Optimize()
	s.atrPeriod = NewParam(&base.Params, "ATRPeriod", 14, Between(1, 500)).Optimize()
	s.multiplier = NewParam(&base.Params, "Multiplier", 2.0, Between(0.1, 10.0)).Optimize()
	return s, nil
}

func (s *KeltnerBreakout) OnStarted() error {
	s.ema = indicator.NewEMA(s.emaPeriod.Get())
	s.series = indicator.NewSeries(4 * s.atrPeriod.Get())
	return nil
}

func (s *KeltnerBreakout) ProcessCandle(c types.Candle) {
	mid := s.ema.Process(c.Close)
	s.series.Add(c)
	atr, ok := s.series.ATR(s.atrPeriod.Get())
	if !ok || !s.ema.Ready() {
		return
	}
	width := s.multiplier.Get() * atr
	pos := s.Position()
	switch {
	case c.Close > mid+width && pos <= 0:
		_ = s.EnterLong("keltner_up")
	case c.Close < mid-width && pos >= 0:
		_ = s.EnterShort("keltner_down")
	case pos > 0 && c.Close < mid:
		_ = s.ClosePosition("keltner_mid")
	case pos < 0 && c.Close > mid:
		_ = s.ClosePosition("keltner_mid")
	}
}
