package backtest

import (
	"fmt"
	"math"
	"time"

	"github.com/evdnx/stratbook/stats"
	"github.com/evdnx/stratbook/types"
	"github.com/shopspring/decimal"
)

const flatQty = 1e-9

type EquityPoint struct {
	Time   time.Time
	Equity float64
}

// RoundTrip is a position opened from flat and closed back to flat (or
// flipped) on one symbol.
type RoundTrip struct {
	Symbol string
	Side   types.Side // side of the opening fill
	Open   time.Time
	Close  time.Time
	PnL    float64
}

type Result struct {
	Candles     int
	Trades      []types.Trade
	Equity      []EquityPoint
	RoundTrips  []RoundTrip
	StartEquity float64
	FinalEquity float64
	NetPnL      float64
	ReturnPct   float64
	MaxDrawdown float64 // fraction of the running peak
	WinRate     float64 // winning round trips / round trips
	Sharpe      float64 // per-candle log returns, not annualised
}

// addEquity records one point per distinct close time.
func (r *Result) addEquity(t time.Time, eq float64) {
	if n := len(r.Equity); n > 0 && r.Equity[n-1].Time.Equal(t) {
		r.Equity[n-1].Equity = eq
		return
	}
	r.Equity = append(r.Equity, EquityPoint{Time: t, Equity: eq})
}

func (r *Result) finish(trades []types.Trade, final float64) {
	r.Trades = trades
	r.FinalEquity = final
	r.NetPnL = final - r.StartEquity
	if r.StartEquity > 0 {
		r.ReturnPct = r.NetPnL / r.StartEquity * 100
	}
	r.MaxDrawdown = MaxDrawdown(r.Equity)
	r.RoundTrips = RoundTrips(trades)
	if n := len(r.RoundTrips); n > 0 {
		wins := 0
		for _, rt := range r.RoundTrips {
			if rt.PnL > 0 {
				wins++
			}
		}
		r.WinRate = float64(wins) / float64(n)
	}
	r.Sharpe = sharpe(r.Equity)
}

// MaxDrawdown is the largest peak-to-trough fall as a fraction of the peak.
func MaxDrawdown(curve []EquityPoint) float64 {
	peak, dd := 0.0, 0.0
	for _, p := range curve {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak > 0 {
			dd = math.Max(dd, (peak-p.Equity)/peak)
		}
	}
	return dd
}

func sharpe(curve []EquityPoint) float64 {
	if len(curve) < 3 {
		return 0
	}
	prices := make([]float64, len(curve))
	for i, p := range curve {
		prices[i] = p.Equity
	}
	rets := stats.LogReturns(prices)
	sd := stats.StdDev(rets)
	if sd == 0 {
		return 0
	}
	return stats.Mean(rets) / sd
}

type openLeg struct {
	qty, avg, pnl float64
	side          types.Side
	opened        time.Time
}

// RoundTrips pairs fills into flat-to-flat round trips with average cost
// accounting. A fill that flips the position closes one trip and opens the
// next at its price.
func RoundTrips(trades []types.Trade) []RoundTrip {
	legs := make(map[string]*openLeg)
	var out []RoundTrip
	for _, tr := range trades {
		signed := tr.SignedQty()
		leg := legs[tr.Symbol]
		if leg == nil || math.Abs(leg.qty) < flatQty {
			legs[tr.Symbol] = &openLeg{qty: signed, avg: tr.Price, side: tr.Side, opened: tr.Time}
			continue
		}
		if math.Signbit(leg.qty) == math.Signbit(signed) {
			total := math.Abs(leg.qty) + tr.Qty
			leg.avg = (math.Abs(leg.qty)*leg.avg + tr.Qty*tr.Price) / total
			leg.qty += signed
			continue
		}
		closing := math.Min(math.Abs(leg.qty), tr.Qty)
		leg.pnl += closing * (tr.Price - leg.avg) * math.Copysign(1, leg.qty)
		rest := leg.qty + signed
		if math.Abs(rest) >= flatQty && math.Signbit(rest) == math.Signbit(leg.qty) {
			leg.qty = rest
			continue
		}
		out = append(out, RoundTrip{Symbol: tr.Symbol, Side: leg.side, Open: leg.opened, Close: tr.Time, PnL: leg.pnl})
		if math.Abs(rest) < flatQty {
			delete(legs, tr.Symbol)
			continue
		}
		legs[tr.Symbol] = &openLeg{qty: rest, avg: tr.Price, side: tr.Side, opened: tr.Time}
	}
	return out
}

// Money formats an amount with two decimals.
func Money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Summary is a short human readable report.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"candles=%d trades=%d round_trips=%d win_rate=%.1f%%\n"+
			"start=%s final=%s net=%s return=%s%% max_dd=%.2f%% sharpe=%.3f",
		r.Candles, len(r.Trades), len(r.RoundTrips), r.WinRate*100,
		Money(r.StartEquity), Money(r.FinalEquity), Money(r.NetPnL),
		decimal.NewFromFloat(r.ReturnPct).StringFixed(2), r.MaxDrawdown*100, r.Sharpe)
}
