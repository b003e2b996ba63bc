package strategy

import (
	"testing"
	"time"

	"github.com/evdnx/stratbook/testutils"
	"github.com/evdnx/stratbook/types"
)

func candleAt(h *Host, i int, o, hi, lo, c float64) types.Candle {
	tf := h.Strategy().Base().Timeframe()
	return types.Candle{
		Symbol:    testSymbol,
		Timeframe: tf,
		OpenTime:  testutils.Epoch.Add(time.Duration(i) * tf),
		Open:      o,
		High:      hi,
		Low:       lo,
		Close:     c,
		Volume:    1000,
		State:     types.CandleFinished,
	}
}

func TestDonchianBreakoutEntryAndExit(t *testing.T) {
	h, exec := startStrategy(t, "donchian_breakout", map[string]any{"EntryPeriod": 5, "ExitPeriod": 3})
	closes := testutils.Concat(testutils.Flat(5, 100), []float64{102, 103, 104, 99.8})
	feed(t, h, bars(h, closes...))

	orders := exec.Orders()
	if len(orders) != 2 {
		t.Fatalf("orders %+v", orders)
	}
	if orders[0].Side != types.Buy || orders[0].Price != 102 {
		t.Fatalf("entry %+v", orders[0])
	}
	if orders[1].Side != types.Sell || orders[1].Comment != "exit_channel_low" {
		t.Fatalf("exit %+v", orders[1])
	}
	if position(exec) != 0 {
		t.Fatalf("position = %v", position(exec))
	}
}

func TestDonchianIgnoresCurrentBar(t *testing.T) {
	h, exec := startStrategy(t, "donchian_breakout", map[string]any{"EntryPeriod": 5, "ExitPeriod": 3})
	// a close inside the prior channel never triggers even though it sets a new high for itself
	feed(t, h, bars(h, testutils.Concat(testutils.Flat(5, 100), []float64{100.4})...))
	expectNoOrders(t, exec)
}

func TestVolatilityBreakout(t *testing.T) {
	h, exec := startStrategy(t, "volatility_breakout", nil)
	feed(t, h, bars(h, 100, 100.3))
	expectNoOrders(t, exec)

	h, exec = startStrategy(t, "volatility_breakout", nil)
	feed(t, h, bars(h, 100, 101))
	if o := firstOrder(t, exec); o.Side != types.Buy {
		t.Fatalf("order %+v", o)
	}
}

func TestInsideBarBreakout(t *testing.T) {
	h, exec := startStrategy(t, "inside_bar", nil)
	feed(t, h, []types.Candle{
		candleAt(h, 0, 100, 105, 95, 100),
		candleAt(h, 1, 100, 103, 97, 101),
		candleAt(h, 2, 101, 102.5, 98, 102),
	})
	expectNoOrders(t, exec)

	feed(t, h, []types.Candle{candleAt(h, 3, 102, 107, 101, 106)})
	o := firstOrder(t, exec)
	if o.Side != types.Buy || o.Comment != "inside_break_up" {
		t.Fatalf("order %+v", o)
	}
}

func TestInsideBarBreakdown(t *testing.T) {
	h, exec := startStrategy(t, "inside_bar", nil)
	feed(t, h, []types.Candle{
		candleAt(h, 0, 100, 105, 95, 100),
		candleAt(h, 1, 100, 103, 97, 99),
		candleAt(h, 2, 99, 99, 92, 93),
	})
	if o := firstOrder(t, exec); o.Side != types.Sell {
		t.Fatalf("order %+v", o)
	}
}

func TestThreeSoldiersAndCrows(t *testing.T) {
	h, exec := startStrategy(t, "three_soldiers", nil)
	feed(t, h, bars(h, 100, 101, 102))
	expectNoOrders(t, exec)

	feed(t, h, testutils.Retime(bars(h, 102, 103)[1:], testutils.Epoch.Add(3*h.Strategy().Base().Timeframe())))
	if o := firstOrder(t, exec); o.Side != types.Buy || o.Comment != "three_white_soldiers" {
		t.Fatalf("order %+v", o)
	}

	h, exec = startStrategy(t, "three_soldiers", nil)
	feed(t, h, bars(h, 103, 102, 101, 100))
	if o := firstOrder(t, exec); o.Side != types.Sell || o.Comment != "three_black_crows" {
		t.Fatalf("order %+v", o)
	}
}

func TestHeikinAshiColorChange(t *testing.T) {
	h, exec := startStrategy(t, "heikin_ashi", nil)
	feed(t, h, bars(h, testutils.Concat(testutils.Ramp(6, 100, 1), testutils.Ramp(5, 104, -1))...))
	o := firstOrder(t, exec)
	if o.Side != types.Sell || o.Comment != "ha_bearish" {
		t.Fatalf("first order %+v", o)
	}
}

func TestBollingerSqueezeRelease(t *testing.T) {
	h, exec := startStrategy(t, "bollinger_squeeze", nil)
	feed(t, h, bars(h, testutils.Flat(20, 100)...))
	if !h.Strategy().(*BollingerSqueeze).Squeezed() {
		t.Fatal("a flat tape must be squeezed")
	}
	expectNoOrders(t, exec)

	feed(t, h, testutils.Retime(bars(h, 100, 105)[1:], testutils.Epoch.Add(20*h.Strategy().Base().Timeframe())))
	o := firstOrder(t, exec)
	if o.Side != types.Buy || o.Comment != "squeeze_break_up" {
		t.Fatalf("order %+v", o)
	}
	if h.Strategy().(*BollingerSqueeze).Squeezed() {
		t.Fatal("the breakout bar widens the bands")
	}
}
