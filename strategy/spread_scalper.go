package strategy

import (
	"github.com/evdnx/stratbook/types"
)

func init() { register("spread_scalper", NewSpreadScalper) }

// SpreadScalper works on level-1 quotes: when the spread is at most
// MaxSpread it leans toward the side the last trade printed on (above the
// mid buys, below sells). Wide spreads flatten the position.
type SpreadScalper struct {
	*BaseStrategy
	maxSpread *Param[float64]
	flatWide  *Param[bool]
}

func NewSpreadScalper(d Deps) (*SpreadScalper, error) {
	base, err := NewBaseStrategy("spread_scalper", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &SpreadScalper{BaseStrategy: base}
	s.maxSpread = NewParam(&base.Params, "MaxSpread", 0.05, Positive[float64]()).Optimize()
	s.flatWide = NewParam(&base.Params, "CloseOnWideSpread", true)
	return s, nil
}

func (s *SpreadScalper) ProcessCandle(types.Candle) {}

func (s *SpreadScalper) ProcessQuote(q types.Quote) {
	if q.Bid <= 0 || q.Ask <= 0 || q.Ask < q.Bid {
		return
	}
	if q.Spread() > s.maxSpread.Get() {
		if s.flatWide.Get() && s.Position() != 0 {
			_ = s.ClosePosition("spread_wide")
		}
		return
	}
	mid := q.Mid()
	switch {
	case q.Last > mid:
		_ = s.EnterLong("last_above_mid")
	case q.Last > 0 && q.Last < mid:
		_ = s.EnterShort("last_below_mid")
	}
}
