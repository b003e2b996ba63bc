package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/evdnx/stratbook/backtest"
	"github.com/evdnx/stratbook/testutils"
	"github.com/evdnx/stratbook/types"
)

func TestMarkersAggregatePerCandle(t *testing.T) {
	candles := testutils.Bars("X", time.Minute, 10, 11, 12)
	trades := []types.Trade{
		// signal fills are stamped at the close of the candle that produced them
		{Symbol: "X", Side: types.Buy, Qty: 1, Price: 10, Time: candles[1].CloseTime()},
		{Symbol: "X", Side: types.Buy, Qty: 3, Price: 12, Time: candles[1].OpenTime.Add(30 * time.Second)},
		{Symbol: "X", Side: types.Sell, Qty: 4, Price: 12, Time: candles[2].CloseTime()},
		{Symbol: "Y", Side: types.Sell, Qty: 1, Price: 99, Time: candles[0].CloseTime()},
		{Symbol: "X", Side: types.Buy, Qty: 1, Price: 9, Time: candles[0].OpenTime.Add(-time.Hour)},
		{Symbol: "X", Side: types.Sell, Qty: 1, Price: 13, Time: candles[2].CloseTime().Add(time.Minute)},
	}
	buys, sells := markers(candles, trades)
	if len(buys) != 3 || len(sells) != 3 {
		t.Fatalf("series lengths %d %d", len(buys), len(sells))
	}
	if buys[0].SymbolSize != 0 || sells[0].SymbolSize != 0 {
		t.Fatal("no marker expected on the first candle")
	}
	if v, ok := buys[1].Value.(float64); !ok || v != 11.5 || buys[1].Name != "buy 4 @ 11.5" {
		t.Fatalf("buy marker %+v", buys[1])
	}
	if sells[2].Name != "sell 4 @ 12" || sells[1].SymbolSize != 0 {
		t.Fatalf("sell marker %+v", sells[2])
	}
}

func TestWriteHTML(t *testing.T) {
	candles := testutils.Bars("X", time.Minute, 10, 11, 12)
	equity := []backtest.EquityPoint{
		{Time: candles[0].CloseTime(), Equity: 1000},
		{Time: candles[1].CloseTime(), Equity: 1001.5},
	}
	var buf bytes.Buffer
	err := WriteHTML(&buf, candles, []types.Trade{{Symbol: "X", Side: types.Buy, Qty: 1, Price: 11, Time: candles[1].CloseTime()}}, equity, Options{Title: "demo"})
	if err != nil {
		t.Fatal(err)
	}
	html := buf.String()
	for _, want := range []string{"<html", "demo", "Equity", "buy 1 @ 11"} {
		if !strings.Contains(html, want) {
			t.Fatalf("html missing %q", want)
		}
	}
	if err := WriteHTML(&buf, nil, nil, nil, Options{}); !errors.Is(err, ErrNoCandles) {
		t.Fatalf("got %v", err)
	}
}
