package strategy

import (
	"testing"

	"github.com/evdnx/stratbook/testutils"
	"github.com/evdnx/stratbook/types"
)

func TestRSIReversalLeavesOversold(t *testing.T) {
	h, exec := startStrategy(t, "rsi_reversal", map[string]any{"RSIPeriod": 3})
	feed(t, h, bars(h, testutils.Concat(testutils.Ramp(10, 120, -1), []float64{125})...))
	orders := exec.Orders()
	if len(orders) != 1 || orders[0].Side != types.Buy || orders[0].Comment != "rsi_leaves_oversold" {
		t.Fatalf("orders %+v", orders)
	}
}

func TestMFIExtremesLeavesOversold(t *testing.T) {
	h, exec := startStrategy(t, "mfi_extremes", map[string]any{"MFIPeriod": 3})
	all := bars(h, testutils.Concat(testutils.Ramp(10, 120, -1), []float64{125})...)
	feed(t, h, all[:10])
	expectNoOrders(t, exec)
	feed(t, h, all[10:])
	o := firstOrder(t, exec)
	if o.Side != types.Buy || o.Comment != "mfi_leaves_oversold" {
		t.Fatalf("order %+v", o)
	}
}

func TestRSIDivergenceOnLowerLow(t *testing.T) {
	h, exec := startStrategy(t, "rsi_divergence", map[string]any{"Lookback": 30})
	closes := testutils.Concat(
		testutils.Ramp(20, 130, -2), // sharp leg down to 92 with RSI pinned at 0
		testutils.Ramp(6, 94, 2),
		testutils.Ramp(11, 103, -1),
		[]float64{91}, // lower price low, RSI well off the floor
	)
	feed(t, h, bars(h, closes[:len(closes)-1]...))
	expectNoOrders(t, exec)

	all := bars(h, closes...)
	feed(t, h, all[len(all)-1:])
	o := firstOrder(t, exec)
	if o.Side != types.Buy || o.Comment != "rsi_bullish_divergence" {
		t.Fatalf("order %+v", o)
	}
}

func TestBollingerWilliamsRoundTrip(t *testing.T) {
	h, exec := startStrategy(t, "bollinger_williams", nil)
	feed(t, h, bars(h, testutils.Concat(testutils.Flat(20, 100), []float64{95, 100})...))
	orders := exec.Orders()
	if len(orders) != 2 {
		t.Fatalf("orders %+v", orders)
	}
	if orders[0].Side != types.Buy || orders[0].Comment != "below_band_oversold" {
		t.Fatalf("entry %+v", orders[0])
	}
	if orders[1].Side != types.Sell || orders[1].Comment != "middle_band" {
		t.Fatalf("exit %+v", orders[1])
	}
}

func TestStochasticCrossInOversold(t *testing.T) {
	h, exec := startStrategy(t, "stochastic_cross", nil)
	decline := testutils.Ramp(25, 150, -1)
	feed(t, h, bars(h, decline...))
	expectNoOrders(t, exec)

	all := bars(h, append(decline, decline[len(decline)-1]+2)...)
	feed(t, h, all[len(all)-1:])
	if o := firstOrder(t, exec); o.Side != types.Buy || o.Comment != "stoch_cross_up" {
		t.Fatalf("order %+v", o)
	}
}

func TestOscillatorConsensusWaitsForWarmup(t *testing.T) {
	h, exec := startStrategy(t, "oscillator_consensus", map[string]any{"WarmupBars": 15})
	feed(t, h, bars(h, testutils.Ramp(14, 100, 1)...))
	expectNoOrders(t, exec)
}

func TestOscillatorConsensusSurvivesChop(t *testing.T) {
	h, exec := startStrategy(t, "oscillator_consensus", nil)
	feed(t, h, bars(h, sine(120, 100, 5, 20)...))
	for _, o := range exec.Orders() {
		if o.Comment != "consensus_long" && o.Comment != "consensus_short" {
			t.Fatalf("unexpected order %+v", o)
		}
	}
	if p := position(exec); p < -2 || p > 2 {
		t.Fatalf("position %v exceeds one reversal", p)
	}
}
