package risk

import (
	"math"

	"github.com/evdnx/stratbook/config"
	"github.com/shopspring/decimal"
)

// CalcQty sizes a position so that hitting the stop loses maxRisk of equity.
func CalcQty(equity, maxRisk, stopLossPct, price float64, cfg config.StrategyConfig) float64 {
	// Dollar risk per trade
	riskAmt := equity * maxRisk
	// Stop‑loss distance in dollars
	slDist := price * stopLossPct
	if slDist <= 0 || riskAmt <= 0 {
		return 0
	}
	return RoundQty(riskAmt/slDist, cfg)
}

// RoundQty floors qty to the exchange step, truncates it to the configured
// precision and returns 0 when the result is below MinQty.
func RoundQty(qty float64, cfg config.StrategyConfig) float64 {
	if qty <= 0 || math.IsNaN(qty) || math.IsInf(qty, 0) {
		return 0
	}
	q := decimal.NewFromFloat(qty)
	if cfg.StepSize > 0 {
		step := decimal.NewFromFloat(cfg.StepSize)
		q = q.Div(step).Floor().Mul(step)
	}
	q = q.Truncate(int32(cfg.QuantityPrecision))
	if cfg.MinQty > 0 && q.LessThan(decimal.NewFromFloat(cfg.MinQty)) {
		return 0
	}
	f, _ := q.Float64()
	return f
}
