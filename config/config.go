package config

import (
	"errors"
	"fmt"
)

// StrategyConfig holds the sizing and protection settings shared by every
// strategy in the catalog. Rule-specific knobs live in the strategy's own
// parameter set.
type StrategyConfig struct {
	// Volume is the fixed order size; 0 switches to risk based sizing.
	Volume float64

	// Risk parameters
	MaxRiskPerTrade float64 // e.g. 0.01 = 1 % of equity
	StopLossPct     float64 // e.g. 0.015 = 1.5 %
	TakeProfitPct   float64 // e.g. 0.03  = 3 %, 0 = disabled
	TrailingPct     float64 // optional, 0 = disabled

	// QuantityPrecision defines the number of decimal places to round to
	// (e.g. 2 for crypto/futures, 0 for equities).
	QuantityPrecision int

	// Minimum order size accepted by the broker (e.g. 0.001 BTC).
	MinQty float64

	// StepSize – the increment allowed by the exchange (e.g. 0.0001).
	StepSize float64
}

// Default returns the settings used by the runner when nothing else is given.
func Default() StrategyConfig {
	return StrategyConfig{
		Volume:            1,
		MaxRiskPerTrade:   0.01,
		StopLossPct:       0.02,
		TakeProfitPct:     0,
		TrailingPct:       0,
		QuantityPrecision: 4,
		MinQty:            0.0001,
		StepSize:          0.0001,
	}
}

// Validate checks that all numeric fields are within sensible bounds.
// It returns the first encountered error, allowing the caller to surface a
// clear configuration problem before any trading starts.
func (c *StrategyConfig) Validate() error {
	if c.Volume < 0 {
		return fmt.Errorf("Volume (%f) cannot be negative", c.Volume)
	}
	if c.Volume == 0 && (c.MaxRiskPerTrade <= 0 || c.MaxRiskPerTrade > 0.5) {
		return fmt.Errorf("MaxRiskPerTrade (%f) must be >0 and <=0.5 when Volume is 0", c.MaxRiskPerTrade)
	}
	if c.MaxRiskPerTrade < 0 || c.MaxRiskPerTrade > 0.5 {
		return fmt.Errorf("MaxRiskPerTrade (%f) must be within [0, 0.5]", c.MaxRiskPerTrade)
	}
	if c.StopLossPct < 0 || c.StopLossPct > 0.5 {
		return fmt.Errorf("StopLossPct (%f) must be within [0, 0.5]", c.StopLossPct)
	}
	if c.Volume == 0 && c.StopLossPct == 0 {
		return errors.New("StopLossPct must be positive when sizing by risk")
	}
	if c.TakeProfitPct < 0 || c.TakeProfitPct > 5 {
		return fmt.Errorf("TakeProfitPct (%f) out of realistic range", c.TakeProfitPct)
	}
	if c.TrailingPct < 0 || c.TrailingPct > 1 {
		return fmt.Errorf("TrailingPct (%f) must be between 0 and 1", c.TrailingPct)
	}
	if c.QuantityPrecision < 0 {
		return errors.New("QuantityPrecision cannot be negative")
	}
	if c.MinQty < 0 {
		return errors.New("MinQty cannot be negative")
	}
	if c.StepSize < 0 {
		return errors.New("StepSize cannot be negative")
	}
	return nil
}
