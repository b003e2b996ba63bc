package strategy

import (
	"math"

	"github.com/evdnx/stratbook/logger"
	"github.com/evdnx/stratbook/types"
)

func init() { register("grid", NewGrid) }

// Grid rests Levels buy limits below and Levels sell limits above a
// reference price, StepPct apart. Every fill is answered with a limit one
// step back the other way. When the close leaves the grid the book is
// cancelled and rebuilt around the new price.
type Grid struct {
	*BaseStrategy
	levels  *Param[int]
	stepPct *Param[float64]

	reference float64
	step      float64
}

func NewGrid(d Deps) (*Grid, error) {
	base, err := NewBaseStrategy("grid", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &Grid{BaseStrategy: base}
	s.levels = NewParam(&base.Params, "Levels", 5, Between(1, 100)).Optimize()
	s.stepPct = NewParam(&base.Params, "StepPct", 0.005, Between(0.0, 0.5)).
		Describe("distance between levels as a fraction of price; 0 sizes the step from recent swings").
		Optimize()
	base.OnOwnTrade(s.onFill)
	return s, nil
}

func (s *Grid) OnReseted() { s.reference, s.step = 0, 0 }

// Reference is the price the current grid was built around.
func (s *Grid) Reference() float64 { return s.reference }

func (s *Grid) ProcessCandle(c types.Candle) {
	if s.reference == 0 {
		s.build(c.Close)
		return
	}
	span := float64(s.levels.Get()+1) * s.step
	if math.Abs(c.Close-s.reference) > span {
		s.Log.Info("grid_recenter", logger.Float64("from", s.reference), logger.Float64("to", c.Close))
		s.CancelAllOrders()
		s.build(c.Close)
	}
}

func (s *Grid) build(price float64) {
	step := price * s.stepPct.Get()
	if step <= 0 {
		step = s.prices.Swing()
	}
	if step <= 0 {
		return
	}
	s.reference, s.step = price, step
	for i := 1; i <= s.levels.Get(); i++ {
		off := float64(i) * step
		if _, err := s.BuyLimit(price-off, 0); err != nil {
			return
		}
		if _, err := s.SellLimit(price+off, 0); err != nil {
			return
		}
	}
}

// onFill answers each filled level with the opposite order one step away.
func (s *Grid) onFill(tr types.Trade) {
	if s.step <= 0 || tr.Comment != "limit" {
		return
	}
	if tr.Side == types.Buy {
		_, _ = s.SellLimit(tr.Price+s.step, tr.Qty)
		return
	}
	_, _ = s.BuyLimit(tr.Price-s.step, tr.Qty)
}
