package strategy

import (
	"github.com/evdnx/stratbook/indicator"
	"github.com/evdnx/stratbook/types"
)

func init() { register("momentum_roc", NewMomentumROC) }

// MomentumROC trades the rate of change crossing zero, filtered by the
// close being on the same side of a long SMA.
type MomentumROC struct {
	*BaseStrategy
	rocPeriod *Param[int]
	smaPeriod *Param[int]

	series *indicator.Series
	sma    *indicator.SMA
	cross  crossing
}

func NewMomentumROC(d Deps) (*MomentumROC, error) {
	base, err := NewBaseStrategy("momentum_roc", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &MomentumROC{BaseStrategy: base}
	s.rocPeriod = NewParam(&base.Params, "ROCPeriod", 12, Between(1, 200)).Optimize()
	s.smaPeriod = NewParam(&base.Params, "SMAPeriod", 50, Between(1, 500)).Optimize()
	return s, nil
}

func (s *MomentumROC) OnStarted() error {
	s.series = indicator.NewSeries(2 * s.rocPeriod.Get())
	s.sma = indicator.NewSMA(s.smaPeriod.Get())
	return nil
}

func (s *MomentumROC) OnReseted() { s.cross.reset() }

func (s *MomentumROC) ProcessCandle(c types.Candle) {
	s.series.Add(c)
	sma := s.sma.Process(c.Close)
	roc, ok := s.series.ROC(s.rocPeriod.Get())
	if !ok || !s.sma.Ready() {
		return
	}
	switch s.cross.update(roc, 0) {
	case 1:
		if c.Close > sma {
			_ = s.EnterLong("roc_above_zero")
		}
	case -1:
		if c.Close < sma {
			_ = s.EnterShort("roc_below_zero")
		}
	}
}
