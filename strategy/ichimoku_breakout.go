package strategy

import (
	"github.com/evdnx/stratbook/indicator"
	"github.com/evdnx/stratbook/types"
)

func init() { register("ichimoku_breakout", NewIchimokuBreakout) }

// IchimokuBreakout buys a close above the cloud while Tenkan is above Kijun
// and sells the mirror setup. An open long is closed when the close falls
// below Kijun, a short when it rises above.
type IchimokuBreakout struct {
	*BaseStrategy
	tenkanPeriod  *Param[int]
	kijunPeriod   *Param[int]
	senkouBPeriod *Param[int]

	ichimoku *indicator.Ichimoku
}

func NewIchimokuBreakout(d Deps) (*IchimokuBreakout, error) {
	base, err := NewBaseStrategy("ichimoku_breakout", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &IchimokuBreakout{BaseStrategy: base}
	s.tenkanPeriod = NewParam(&base.Params, "TenkanPeriod", 9, Between(1, 200)).Optimize()
	s.kijunPeriod = NewParam(&base.Params, "KijunPeriod", 26, Between(1, 400)).Optimize()
	s.senkouBPeriod = NewParam(&base.Params, "SenkouSpanBPeriod", 52, Between(1, 800)).Optimize()
	return s, nil
}

func (s *IchimokuBreakout) OnStarted() error {
	s.ichimoku = indicator.NewIchimoku(s.tenkanPeriod.Get(), s.kijunPeriod.Get(), s.senkouBPeriod.Get())
	return nil
}

func (s *IchimokuBreakout) ProcessCandle(c types.Candle) {
	ich := s.ichimoku
	ich.Process(c)
	if !ich.Ready() {
		return
	}
	pos := s.Position()
	switch {
	case c.Close > ich.CloudTop() && ich.Tenkan() > ich.Kijun() && pos <= 0:
		_ = s.EnterLong("above_cloud")
	case c.Close < ich.CloudBottom() && ich.Tenkan() < ich.Kijun() && pos >= 0:
		_ = s.EnterShort("below_cloud")
	case pos > 0 && c.Close < ich.Kijun():
		_ = s.ClosePosition("below_kijun")
	case pos < 0 && c.Close > ich.Kijun():
		_ = s.ClosePosition("above_kijun")
	}
}
