package strategy

import (
	"math"

	"github.com/evdnx/stratbook/logger"
	"github.com/evdnx/stratbook/types"
)

func init() { register("martingale", NewMartingale) }

// Martingale holds one position at a time behind fixed stop-loss and
// take-profit exits. After a losing round trip it re-enters in the opposite
// direction with the volume multiplied by Multiplier (up to MaxSteps
// doublings); after a win it returns to the base volume and keeps the
// direction. The first direction follows the recent price slope.
type Martingale struct {
	*BaseStrategy
	multiplier *Param[float64]
	maxSteps   *Param[int]
	stopLoss   *Param[float64]
	takeProfit *Param[float64]

	dir        types.Side
	steps      int
	openSide   types.Side
	entryPrice float64
}

func NewMartingale(d Deps) (*Martingale, error) {
	base, err := NewBaseStrategy("martingale", d, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	s := &Martingale{BaseStrategy: base}
	s.multiplier = NewParam(&base.Params, "Multiplier", 2.0, Between(1.0, 10.0)).Optimize()
	s.maxSteps = NewParam(&base.Params, "MaxSteps", 4, Between(0, 20))
	s.stopLoss = NewParam(&base.Params, "StopLossPct", 0.01, Between(0.0001, 0.5)).Optimize()
	s.takeProfit = NewParam(&base.Params, "TakeProfitPct", 0.01, Between(0.0001, 5.0)).Optimize()
	base.OnOwnTrade(s.onTrade)
	return s, nil
}

func (s *Martingale) OnStarted() error {
	s.StartProtection(ProtectionConfig{
		StopLoss:   s.stopLoss.Get(),
		TakeProfit: s.takeProfit.Get(),
		Unit:       Percent,
	})
	return nil
}

func (s *Martingale) OnReseted() {
	s.dir, s.steps, s.openSide, s.entryPrice = "", 0, "", 0
}

// Steps is the number of consecutive losses behind the next entry size.
func (s *Martingale) Steps() int { return s.steps }

func (s *Martingale) ProcessCandle(c types.Candle) {
	if s.Position() != 0 {
		return
	}
	if s.dir == "" {
		switch slope := s.prices.Slope(); {
		case s.prices.Len() < 3 || slope == 0:
			return
		case slope > 0:
			s.dir = types.Buy
		default:
			s.dir = types.Sell
		}
	}
	volume := s.Volume() * math.Pow(s.multiplier.Get(), float64(s.steps))
	_ = s.MarketOrder(s.Symbol, s.dir, volume, "martingale_entry")
}

func (s *Martingale) onTrade(tr types.Trade) {
	if s.openSide == "" {
		s.openSide, s.entryPrice = tr.Side, tr.Price
		return
	}
	if tr.Side != s.openSide.Opposite() {
		return
	}
	pnl := (tr.Price - s.entryPrice) * s.openSide.Sign() * tr.Qty
	s.openSide, s.entryPrice = "", 0
	if pnl < 0 {
		s.dir = s.dir.Opposite()
		if s.steps < s.maxSteps.Get() {
			s.steps++
		}
	} else {
		s.steps = 0
	}
	s.Log.Info("martingale_round_trip",
		logger.Float64("pnl", pnl),
		logger.Int("steps", s.steps),
		logger.String("next", string(s.dir)))
}
