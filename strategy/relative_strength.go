package strategy

import (
	"github.com/evdnx/stratbook/indicator"
	"github.com/evdnx/stratbook/logger"
	"github.com/evdnx/stratbook/types"
)

func init() { register("relative_strength", NewRelativeStrength) }

// RelativeStrength rotates a single long position into the security with
// the highest rate of change. The first security is the clock: every
// RebalanceBars of its candles the ranking is refreshed. Securities with a
// negative ROC are never bought.
type RelativeStrength struct {
	*BaseStrategy
	rocPeriod *Param[int]
	rebalance *Param[int]

	series map[string]*indicator.Series
	held   string
	bars   int
}

func NewRelativeStrength(d Deps) (*RelativeStrength, error) {
	if d.Symbol == "" && len(d.Securities) > 0 {
		d.Symbol = d.Securities[0]
	}
	base, err := NewBaseStrategy("relative_strength", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &RelativeStrength{BaseStrategy: base}
	s.rocPeriod = NewParam(&base.Params, "ROCPeriod", 20, Between(1, 500)).Optimize()
	s.rebalance = NewParam(&base.Params, "RebalanceBars", 5, Between(1, 1000))
	return s, nil
}

func (s *RelativeStrength) Subscriptions() []types.Subscription {
	subs := make([]types.Subscription, 0, len(s.Securities()))
	for _, sym := range s.Securities() {
		subs = append(subs, types.Subscription{Symbol: sym, Timeframe: s.Timeframe()})
	}
	return subs
}

func (s *RelativeStrength) OnStarted() error {
	if len(s.Securities()) == 0 {
		return ErrEmptyUniverse
	}
	s.series = make(map[string]*indicator.Series, len(s.Securities()))
	for _, sym := range s.Securities() {
		s.series[sym] = indicator.NewSeries(2 * s.rocPeriod.Get())
	}
	return nil
}

func (s *RelativeStrength) OnReseted() { s.held, s.bars = "", 0 }

// Held is the security currently owned, empty when flat.
func (s *RelativeStrength) Held() string { return s.held }

func (s *RelativeStrength) ProcessCandle(c types.Candle) {
	series, ok := s.series[c.Symbol]
	if !ok {
		return
	}
	series.Add(c)
	if c.Symbol != s.Securities()[0] {
		return
	}
	s.bars++
	if s.bars%s.rebalance.Get() != 0 {
		return
	}

	best, bestROC := "", 0.0
	for _, sym := range s.Securities() {
		roc, ok := s.series[sym].ROC(s.rocPeriod.Get())
		if ok && roc > bestROC {
			best, bestROC = sym, roc
		}
	}
	if best == s.held {
		return
	}
	if s.held != "" {
		if err := s.ClosePositionOf(s.held, "rotate_out"); err != nil {
			return
		}
	}
	s.held = ""
	if best == "" {
		return
	}
	if err := s.MarketOrder(best, types.Buy, s.VolumeFor(best), "rotate_in"); err != nil {
		return
	}
	s.held = best
	s.Log.Info("rotation", logger.String("held", best), logger.Float64("roc", bestROC))
}
