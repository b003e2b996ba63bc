package strategy

import (
	"github.com/evdnx/stratbook/indicator"
	"github.com/evdnx/stratbook/types"
)

func init() { register("bollinger_williams", NewBollingerWilliams) }

// BollingerWilliams fades closes outside the Bollinger envelope when
// Williams %R agrees that the move is stretched, and exits at the middle band.
type BollingerWilliams struct {
	*BaseStrategy
	bbPeriod     *Param[int]
	bbWidth      *Param[float64]
	wrPeriod     *Param[int]
	wrOversold   *Param[float64]
	wrOverbought *Param[float64]

	series *indicator.Series
}

func NewBollingerWilliams(d Deps) (*BollingerWilliams, error) {
	base, err := NewBaseStrategy("bollinger_williams", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &BollingerWilliams{BaseStrategy: base}
	s.bbPeriod = NewParam(&base.Params, "BollingerPeriod", 20, Between(2, 500)).Optimize()
	s.bbWidth = NewParam(&base.Params, "BollingerWidth", 2.0, Between(0.1, 10.0)).Optimize()
	s.wrPeriod = NewParam(&base.Params, "WilliamsPeriod", 14, Between(2, 200)).Optimize()
	s.wrOversold = NewParam(&base.Params, "WilliamsOversold", -80.0, Between(-100.0, 0.0))
	s.wrOverbought = NewParam(&base.Params, "WilliamsOverbought", -20.0, Between(-100.0, 0.0))
	return s, nil
}

func (s *BollingerWilliams) OnStarted() error {
	s.series = indicator.NewSeries(2 * max(s.bbPeriod.Get(), s.wrPeriod.Get()))
	return nil
}

func (s *BollingerWilliams) ProcessCandle(c types.Candle) {
	s.series.Add(c)
	upper, middle, lower, ok := s.series.Bollinger(s.bbPeriod.Get(), s.bbWidth.Get())
	if !ok {
		return
	}
	wr, ok := s.series.WilliamsR(s.wrPeriod.Get())
	if !ok {
		return
	}
	pos := s.Position()
	switch {
	case c.Close < lower && wr < s.wrOversold.Get() && pos <= 0:
		_ = s.EnterLong("below_band_oversold")
	case c.Close > upper && wr > s.wrOverbought.Get() && pos >= 0:
		_ = s.EnterShort("above_band_overbought")
	case pos > 0 && c.Close >= middle:
		_ = s.ClosePosition("middle_band")
	case pos < 0 && c.Close <= middle:
		_ = s.ClosePosition("middle_band")
	}
}
