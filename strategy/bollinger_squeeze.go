package strategy

import (
	"github.com/evdnx/stratbook/indicator"
	"github.com/evdnx/stratbook/types"
)

func init() { register("bollinger_squeeze", NewBollingerSqueeze) }

// BollingerSqueeze waits for the band width to contract below
// SqueezeThreshold (as a fraction of the middle band) and trades the first
// close outside the bands after the squeeze.
type BollingerSqueeze struct {
	*BaseStrategy
	period    *Param[int]
	width     *Param[float64]
	threshold *Param[float64]

	series   *indicator.Series
	squeezed bool
}

func NewBollingerSqueeze(d Deps) (*BollingerSqueeze, error) {
	base, err := NewBaseStrategy("bollinger_squeeze", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &BollingerSqueeze{BaseStrategy: base}
	s.period = NewParam(&base.Params, "BollingerPeriod", 20, Between(2, 500)).Optimize()
	s.width = NewParam(&base.Params, "BollingerWidth", 2.0, Between(0.1, 10.0))
	s.threshold = NewParam(&base.Params, "SqueezeThreshold", 0.01, Between(0.0001, 1.0)).Optimize()
	return s, nil
}

func (s *BollingerSqueeze) OnStarted() error {
	s.series = indicator.NewSeries(2 * s.period.Get())
	return nil
}

func (s *BollingerSqueeze) OnReseted() { s.squeezed = false }

// Squeezed reports whether the previous bar closed inside a squeeze.
func (s *BollingerSqueeze) Squeezed() bool { return s.squeezed }

func (s *BollingerSqueeze) ProcessCandle(c types.Candle) {
	s.series.Add(c)
	upper, middle, lower, ok := s.series.Bollinger(s.period.Get(), s.width.Get())
	if !ok || middle == 0 {
		return
	}
	wasSqueezed := s.squeezed
	s.squeezed = (upper-lower)/middle < s.threshold.Get()
	if !wasSqueezed {
		return
	}
	switch {
	case c.Close > upper:
		_ = s.EnterLong("squeeze_break_up")
	case c.Close < lower:
		_ = s.EnterShort("squeeze_break_down")
	}
}
