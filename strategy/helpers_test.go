package strategy

import (
	"math"
	"testing"

	"github.com/evdnx/stratbook/config"
	"github.com/evdnx/stratbook/testutils"
	"github.com/evdnx/stratbook/types"
)

const testSymbol = "TEST"

func testDeps(exec *testutils.MockExecutor, log *testutils.MockLogger) Deps {
	return Deps{
		Symbol: testSymbol,
		Cfg:    config.Default(),
		Exec:   exec,
		Log:    log,
	}
}

// startStrategy builds name from the registry with params applied and starts
// it on a host backed by a mock executor with $100k.
func startStrategy(t *testing.T, name string, params map[string]any) (*Host, *testutils.MockExecutor) {
	t.Helper()
	exec := testutils.NewMockExecutor(100_000)
	s, err := New(name, testDeps(exec, testutils.NewMockLogger()))
	if err != nil {
		t.Fatalf("New(%s): %v", name, err)
	}
	if err := s.Base().Params.Apply(params); err != nil {
		t.Fatalf("apply params: %v", err)
	}
	h := NewHost(s)
	if err := h.Start(); err != nil {
		t.Fatalf("start %s: %v", name, err)
	}
	return h, exec
}

// bars builds working-timeframe candles for the host's strategy.
func bars(h *Host, closes ...float64) []types.Candle {
	return testutils.Bars(testSymbol, h.Strategy().Base().Timeframe(), closes...)
}

func feed(t *testing.T, h *Host, candles []types.Candle) {
	t.Helper()
	for _, c := range candles {
		if err := h.ProcessCandle(c); err != nil {
			t.Fatalf("process candle %v: %v", c.OpenTime, err)
		}
	}
}

func firstOrder(t *testing.T, exec *testutils.MockExecutor) types.Order {
	t.Helper()
	orders := exec.Orders()
	if len(orders) == 0 {
		t.Fatal("expected at least one order, got none")
	}
	return orders[0]
}

func expectNoOrders(t *testing.T, exec *testutils.MockExecutor) {
	t.Helper()
	if n := len(exec.Orders()); n != 0 {
		t.Fatalf("expected no orders, got %d: %+v", n, exec.Orders())
	}
}

func hasSide(orders []types.Order, side types.Side) bool {
	for _, o := range orders {
		if o.Side == side {
			return true
		}
	}
	return false
}

func position(exec *testutils.MockExecutor) float64 {
	qty, _ := exec.Position(testSymbol)
	return qty
}

// sine returns n closes oscillating around mid with the given amplitude and period.
func sine(n int, mid, amp float64, period int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = mid + amp*math.Sin(2*math.Pi*float64(i)/float64(period))
	}
	return out
}
