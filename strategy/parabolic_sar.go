package strategy

import (
	"github.com/evdnx/stratbook/indicator"
	"github.com/evdnx/stratbook/types"
)

func init() { register("parabolic_sar", NewParabolicSAR) }

// ParabolicSAR reverses whenever the close crosses the stop-and-reverse line.
type ParabolicSAR struct {
	*BaseStrategy
	acceleration *Param[float64]
	maximum      *Param[float64]

	series *indicator.Series
	cross  crossing
}

func NewParabolicSAR(d Deps) (*ParabolicSAR, error) {
	base, err := NewBaseStrategy("parabolic_sar", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &ParabolicSAR{BaseStrategy: base}
	s.acceleration = NewParam(&base.Params, "Acceleration", 0.02, Between(0.001, 1.0)).Optimize()
	s.maximum = NewParam(&base.Params, "MaxAcceleration", 0.2, Between(0.001, 1.0)).Optimize()
	return s, nil
}

func (s *ParabolicSAR) OnStarted() error {
	s.series = indicator.NewSeries(200)
	return nil
}

func (s *ParabolicSAR) OnReseted() { s.cross.reset() }

func (s *ParabolicSAR) ProcessCandle(c types.Candle) {
	s.series.Add(c)
	sar, ok := s.series.SAR(s.acceleration.Get(), s.maximum.Get())
	if !ok {
		return
	}
	switch s.cross.update(c.Close, sar) {
	case 1:
		_ = s.EnterLong("sar_flip_up")
	case -1:
		_ = s.EnterShort("sar_flip_down")
	}
}
