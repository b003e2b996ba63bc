package testutils

import (
	"time"

	"github.com/evdnx/stratbook/types"
)

// Epoch is the open time of the first synthetic candle.
var Epoch = time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

// Bars turns a close series into finished candles with a ±0.5 range around
// each close and the open at the previous close.
func Bars(symbol string, tf time.Duration, closes ...float64) []types.Candle {
	out := make([]types.Candle, 0, len(closes))
	prev := 0.0
	for i, c := range closes {
		open := prev
		if i == 0 {
			open = c
		}
		hi, lo := c+0.5, c-0.5
		if open > hi {
			hi = open
		}
		if open < lo {
			lo = open
		}
		out = append(out, types.Candle{
			Symbol:    symbol,
			Timeframe: tf,
			OpenTime:  Epoch.Add(time.Duration(i) * tf),
			Open:      open,
			High:      hi,
			Low:       lo,
			Close:     c,
			Volume:    1000,
			State:     types.CandleFinished,
		})
		prev = c
	}
	return out
}

// Flat returns n copies of v.
func Flat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// Ramp returns n values starting at from and moving by step.
func Ramp(n int, from, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = from + float64(i)*step
	}
	return out
}

// Concat joins close series.
func Concat(parts ...[]float64) []float64 {
	var out []float64
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Retime rewrites OpenTime so that bars follow each other after start.
func Retime(bars []types.Candle, start time.Time) []types.Candle {
	for i := range bars {
		bars[i].OpenTime = start.Add(time.Duration(i) * bars[i].Timeframe)
	}
	return bars
}
