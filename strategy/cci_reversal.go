package strategy

import (
	"github.com/evdnx/stratbook/indicator"
	"github.com/evdnx/stratbook/types"
)

func init() { register("cci_reversal", NewCCIReversal) }

// CCIReversal buys when CCI returns above -Threshold and sells when it
// returns below +Threshold.
type CCIReversal struct {
	*BaseStrategy
	period    *Param[int]
	threshold *Param[float64]

	series *indicator.Series
	zone   zone
}

func NewCCIReversal(d Deps) (*CCIReversal, error) {
	base, err := NewBaseStrategy("cci_reversal", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &CCIReversal{BaseStrategy: base}
	s.period = NewParam(&base.Params, "CCIPeriod", 20, Between(2, 200)).Optimize()
	s.threshold = NewParam(&base.Params, "Threshold", 100.0, Positive[float64]()).Optimize()
	return s, nil
}

func (s *CCIReversal) OnStarted() error {
	s.series = indicator.NewSeries(4 * s.period.Get())
	s.zone = zone{lower: -s.threshold.Get(), upper: s.threshold.Get()}
	return nil
}

func (s *CCIReversal) OnReseted() { s.zone.reset() }

func (s *CCIReversal) ProcessCandle(c types.Candle) {
	s.series.Add(c)
	cci, ok := s.series.CCI(s.period.Get())
	if !ok {
		return
	}
	switch s.zone.update(cci) {
	case 1:
		_ = s.EnterLong("cci_up")
	case -1:
		_ = s.EnterShort("cci_down")
	}
}
