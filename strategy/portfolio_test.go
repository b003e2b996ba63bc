package strategy

import (
	"errors"
	"testing"

	"github.com/evdnx/stratbook/config"
	"github.com/evdnx/stratbook/risk"
	"github.com/evdnx/stratbook/testutils"
	"github.com/evdnx/stratbook/types"
)

func TestGridBuildsAndAnswersFills(t *testing.T) {
	h, exec := startStrategy(t, "grid", nil)
	g := h.Strategy().(*Grid)

	feed(t, h, bars(h, 100))
	if g.ActiveOrders() != 10 || g.Reference() != 100 {
		t.Fatalf("active %d reference %v", g.ActiveOrders(), g.Reference())
	}

	// the low of 99.1 takes out the first buy level only
	feed(t, h, bars(h, 100, 99.6)[1:])
	if position(exec) != 1 {
		t.Fatalf("position %v", position(exec))
	}
	if g.ActiveOrders() != 10 {
		t.Fatalf("fill should be answered by one new sell, active %d", g.ActiveOrders())
	}
	last, _ := exec.LastOrder()
	if last.Side != types.Sell || !approx(last.Price, 100) || last.Type != types.Limit {
		t.Fatalf("counter order %+v", last)
	}
}

func TestGridRecenters(t *testing.T) {
	h, _ := startStrategy(t, "grid", nil)
	g := h.Strategy().(*Grid)
	feed(t, h, []types.Candle{
		candleAt(h, 0, 100, 100.5, 99.5, 100),
		candleAt(h, 1, 110, 110.5, 109.5, 110),
	})
	if g.Reference() != 110 || g.ActiveOrders() != 10 {
		t.Fatalf("reference %v active %d", g.Reference(), g.ActiveOrders())
	}
}

func TestMartingaleDoublesAfterLoss(t *testing.T) {
	h, exec := startStrategy(t, "martingale", nil)
	feed(t, h, bars(h, 100, 101, 102, 103, 95))

	want := []struct {
		side types.Side
		qty  float64
	}{
		{types.Buy, 1},  // slope entry at 102
		{types.Sell, 1}, // take-profit at 103.02
		{types.Buy, 1},  // re-entry after the win
		{types.Sell, 1}, // stop at 101.97
		{types.Sell, 2}, // reversed and doubled
	}
	orders := exec.Orders()
	if len(orders) != len(want) {
		t.Fatalf("orders %+v", orders)
	}
	for i, w := range want {
		if orders[i].Side != w.side || orders[i].Qty != w.qty {
			t.Fatalf("order %d = %+v, want %s %v", i, orders[i], w.side, w.qty)
		}
	}
	if !approx(orders[1].Price, 103.02) || !approx(orders[3].Price, 101.97) {
		t.Fatalf("exit prices %v %v", orders[1].Price, orders[3].Price)
	}
	if m := h.Strategy().(*Martingale); m.Steps() != 1 {
		t.Fatalf("steps %d", m.Steps())
	}
	if position(exec) != -2 {
		t.Fatalf("position %v", position(exec))
	}
}

func TestRelativeStrengthRotatesIntoLeader(t *testing.T) {
	exec := testutils.NewMockExecutor(100_000)
	s, err := New("relative_strength", Deps{
		Securities: []string{"A", "B"},
		Cfg:        config.Default(),
		Exec:       exec,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Base().Params.Apply(map[string]any{"ROCPeriod": 3, "RebalanceBars": 1}); err != nil {
		t.Fatal(err)
	}
	h := NewHost(s)
	if err := h.Start(); err != nil {
		t.Fatal(err)
	}
	tf := s.Base().Timeframe()
	a := testutils.Bars("A", tf, testutils.Flat(6, 100)...)
	b := testutils.Bars("B", tf, testutils.Ramp(6, 100, 1)...)
	for i := range a {
		feed(t, h, []types.Candle{a[i], b[i]})
	}

	rs := s.(*RelativeStrength)
	if rs.Held() != "B" {
		t.Fatalf("held %q", rs.Held())
	}
	if qty, _ := exec.Position("B"); qty != 1 {
		t.Fatalf("B position %v", qty)
	}
	if qty, _ := exec.Position("A"); qty != 0 {
		t.Fatalf("A position %v", qty)
	}
	if o := firstOrder(t, exec); o.Symbol != "B" || o.Comment != "rotate_in" {
		t.Fatalf("order %+v", o)
	}
}

func TestRelativeStrengthSizesByRotatedSymbol(t *testing.T) {
	cfg := config.Default()
	cfg.Volume = 0
	exec := testutils.NewMockExecutor(100_000)
	s, err := New("relative_strength", Deps{
		Securities: []string{"A", "B"},
		Cfg:        cfg,
		Exec:       exec,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Base().Params.Apply(map[string]any{"ROCPeriod": 3, "RebalanceBars": 1}); err != nil {
		t.Fatal(err)
	}
	h := NewHost(s)
	if err := h.Start(); err != nil {
		t.Fatal(err)
	}
	tf := s.Base().Timeframe()
	a := testutils.Bars("A", tf, testutils.Flat(5, 10)...)
	b := testutils.Bars("B", tf, testutils.Ramp(5, 1000, 10)...)
	for i := range a {
		feed(t, h, []types.Candle{a[i], b[i]})
	}

	if held := s.(*RelativeStrength).Held(); held != "B" {
		t.Fatalf("held %q", held)
	}
	// rotation runs on A's bar, so B is marked at its previous close of 1030
	want := risk.CalcQty(100_000, cfg.MaxRiskPerTrade, cfg.StopLossPct, 1030, cfg)
	o := firstOrder(t, exec)
	if o.Symbol != "B" || o.Qty != want {
		t.Fatalf("order %+v, want qty %v", o, want)
	}
	if want >= risk.CalcQty(100_000, cfg.MaxRiskPerTrade, cfg.StopLossPct, 10, cfg) {
		t.Fatal("size must follow the rotated symbol's price")
	}
}

func TestRelativeStrengthNeedsUniverse(t *testing.T) {
	exec := testutils.NewMockExecutor(1000)
	s, err := New("relative_strength", testDeps(exec, nil))
	if err != nil {
		t.Fatal(err)
	}
	if err := NewHost(s).Start(); !errors.Is(err, ErrEmptyUniverse) {
		t.Fatalf("got %v, want ErrEmptyUniverse", err)
	}
}

func TestSpreadScalper(t *testing.T) {
	h, exec := startStrategy(t, "spread_scalper", nil)
	quote := func(bid, ask, last float64) {
		t.Helper()
		q := types.Quote{Symbol: testSymbol, Time: testutils.Epoch, Bid: bid, Ask: ask, Last: last}
		if err := h.ProcessQuote(q); err != nil {
			t.Fatal(err)
		}
	}

	quote(99.9, 100.1, 100.05)
	expectNoOrders(t, exec)

	quote(99.98, 100.02, 100.01)
	if o := firstOrder(t, exec); o.Side != types.Buy || o.Comment != "last_above_mid" {
		t.Fatalf("order %+v", o)
	}
	quote(99.98, 100.02, 99.99)
	if position(exec) != -1 {
		t.Fatalf("print below mid should reverse, position %v", position(exec))
	}
	quote(99.9, 100.1, 100)
	if position(exec) != 0 {
		t.Fatalf("wide spread should flatten, position %v", position(exec))
	}
	last, _ := exec.LastOrder()
	if last.Comment != "spread_wide" {
		t.Fatalf("last order %+v", last)
	}
}
