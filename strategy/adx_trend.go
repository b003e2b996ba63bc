package strategy

import (
	"github.com/evdnx/stratbook/indicator"
	"github.com/evdnx/stratbook/types"
)

func init() { register("adx_trend", NewADXTrend) }

// ADXTrend follows the dominant directional line while ADX confirms a trend.
type ADXTrend struct {
	*BaseStrategy
	period    *Param[int]
	threshold *Param[float64]

	series *indicator.Series
}

func NewADXTrend(d Deps) (*ADXTrend, error) {
	base, err := NewBaseStrategy("adx_trend", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &ADXTrend{BaseStrategy: base}
	s.period = NewParam(&base.Params, "ADXPeriod", 14, Between(2, 200)).Optimize()
	s.threshold = NewParam(&base.Params, "Threshold", 25.0, Between(0.0, 100.0)).Optimize()
	return s, nil
}

func (s *ADXTrend) OnStarted() error {
	s.series = indicator.NewSeries(6 * s.period.Get())
	return nil
}

func (s *ADXTrend) ProcessCandle(c types.Candle) {
	s.series.Add(c)
	adx, plus, minus, ok := s.series.ADX(s.period.Get())
	if !ok || adx < s.threshold.Get() {
		return
	}
	switch {
	case plus > minus:
		_ = s.EnterLong("adx_plus_di")
	case minus > plus:
		_ = s.EnterShort("adx_minus_di")
	}
}
