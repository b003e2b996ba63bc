package marketdata

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/evdnx/stratbook/testutils"
	"github.com/evdnx/stratbook/types"
)

func TestResamplerEmitsOnBucketEnd(t *testing.T) {
	r := NewResampler(15 * time.Minute)
	base := testutils.Bars("X", 5*time.Minute, 10, 12, 11, 13, 9, 14, 15)

	var out []types.Candle
	for _, c := range base {
		out = append(out, r.Process(c)...)
	}
	if len(out) != 2 {
		t.Fatalf("expected two finished buckets, got %d", len(out))
	}
	first := out[0]
	if !first.OpenTime.Equal(testutils.Epoch) || first.Timeframe != 15*time.Minute || !first.Finished() {
		t.Fatalf("bad first bucket %+v", first)
	}
	if first.Open != 10 || first.Close != 11 || first.High != 12.5 || first.Low != 9.5 || first.Volume != 3000 {
		t.Fatalf("bad OHLCV %+v", first)
	}
	if out[1].Close != 14 || out[1].Low != 8.5 {
		t.Fatalf("bad second bucket %+v", out[1])
	}

	cur, ok := r.Current("X")
	if !ok || cur.Close != 15 || cur.Finished() {
		t.Fatalf("forming bucket %+v", cur)
	}
	flushed := r.Flush()
	if len(flushed) != 1 || !flushed[0].Finished() || flushed[0].Close != 15 {
		t.Fatalf("flush %+v", flushed)
	}
	if _, ok := r.Current("X"); ok {
		t.Fatal("flush must clear state")
	}
}

func TestResamplerGapAndLateCandles(t *testing.T) {
	r := NewResampler(15 * time.Minute)
	base := testutils.Bars("X", 5*time.Minute, 10, 11, 12, 13, 14, 15, 16)

	r.Process(base[0])
	// the rest of the first bucket is missing
	out := r.Process(base[4])
	if len(out) != 1 || out[0].Close != 10 {
		t.Fatalf("gap should finish the stale bucket, got %+v", out)
	}
	if out := r.Process(base[1]); out != nil || r.Dropped() != 1 {
		t.Fatalf("late candle must be dropped: %+v dropped=%d", out, r.Dropped())
	}
	active := base[5]
	active.State = types.CandleActive
	if out := r.Process(active); out != nil {
		t.Fatal("active candles are ignored")
	}
}

func TestAlign(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 7, 31, 0, time.UTC)
	if got := Align(ts, 5*time.Minute); !got.Equal(time.Date(2024, 3, 1, 10, 5, 0, 0, time.UTC)) {
		t.Fatalf("align 5m = %v", got)
	}
	if got := Align(ts, time.Hour); !got.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("align 1h = %v", got)
	}
}

func TestTickAggregator(t *testing.T) {
	a := NewTickAggregator(time.Minute)
	var dropped int
	a.OnDropped = func(types.Quote) { dropped++ }
	at := func(sec int) time.Time { return testutils.Epoch.Add(time.Duration(sec) * time.Second) }

	for _, q := range []types.Quote{
		{Symbol: "X", Time: at(1), Last: 10, Volume: 1},
		{Symbol: "X", Time: at(20), Last: 12, Volume: 2},
		{Symbol: "X", Time: at(40), Bid: 8.5, Ask: 9.5, Volume: 1},
	} {
		if _, done := a.Add(q); done {
			t.Fatal("no candle should finish inside the first minute")
		}
	}
	c, done := a.Add(types.Quote{Symbol: "X", Time: at(61), Last: 11})
	if !done {
		t.Fatal("next minute must finish the candle")
	}
	if c.Open != 10 || c.High != 12 || c.Low != 9 || c.Close != 9 || c.Volume != 4 || !c.Finished() {
		t.Fatalf("candle %+v", c)
	}
	if _, done := a.Add(types.Quote{Symbol: "X", Time: at(59), Last: 50}); done || dropped != 1 {
		t.Fatalf("late tick must be dropped, dropped=%d", dropped)
	}
	if _, done := a.Add(types.Quote{Symbol: "X", Time: at(62)}); done {
		t.Fatal("quotes without a price are ignored")
	}

	if got := a.Expire(at(100)); len(got) != 0 {
		t.Fatalf("minute two is still open: %+v", got)
	}
	got := a.Expire(at(120))
	if len(got) != 1 || got[0].Close != 11 || !got[0].OpenTime.Equal(at(60)) {
		t.Fatalf("expire %+v", got)
	}
	if len(a.Flush()) != 0 {
		t.Fatal("nothing left to flush")
	}
}

func TestLoadCSV(t *testing.T) {
	in := `time,open,high,low,close,volume
2024-01-02T09:00:00Z,100,101,99,100.5,1200
2024-01-02 09:05:00,100.5,102,100,101.5,900
1704186600,101.5,101.8,100.9,101,700
`
	candles, err := LoadCSV(strings.NewReader(in), "X", 5*time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if len(candles) != 3 {
		t.Fatalf("got %d candles", len(candles))
	}
	if candles[1].OpenTime.Sub(candles[0].OpenTime) != 5*time.Minute || candles[2].Close != 101 {
		t.Fatalf("candles %+v", candles)
	}
	for _, c := range candles {
		if c.Symbol != "X" || c.Timeframe != 5*time.Minute || !c.Finished() {
			t.Fatalf("candle %+v", c)
		}
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, candles); err != nil {
		t.Fatal(err)
	}
	again, err := LoadCSV(&buf, "X", 5*time.Minute)
	if err != nil || len(again) != 3 || !again[2].OpenTime.Equal(candles[2].OpenTime) || again[2].Close != candles[2].Close {
		t.Fatalf("rewritten csv differs: %v %+v", err, again)
	}
}

func TestLoadCSVErrors(t *testing.T) {
	cases := map[string]string{
		"short row":    "2024-01-02T09:00:00Z,1,2\n",
		"bad number":   "2024-01-02T09:00:00Z,1,2,x,1,1\n",
		"bad time":     "yesterday,1,2,1,1,1\n",
		"high < low":   "2024-01-02T09:00:00Z,1,1,2,1,1\n",
		"out of order": "2024-01-02T09:05:00Z,1,2,1,1,1\n2024-01-02T09:00:00Z,1,2,1,1,1\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadCSV(strings.NewReader(in), "X", time.Minute); !errors.Is(err, ErrBadRow) {
				t.Fatalf("got %v, want ErrBadRow", err)
			}
		})
	}
}

func TestSliceSource(t *testing.T) {
	bars := testutils.Bars("X", time.Minute, 1, 2, 3, 4)
	src := NewSliceSource(append(bars, testutils.Bars("Y", time.Minute, 9)...))
	got, err := src.Candles(context.Background(), "X", time.Minute, testutils.Epoch.Add(time.Minute), testutils.Epoch.Add(3*time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Close != 2 || got[1].Close != 3 {
		t.Fatalf("range %+v", got)
	}
	if _, err := src.Candles(context.Background(), "Z", time.Minute, time.Time{}, time.Time{}); !errors.Is(err, ErrNoData) {
		t.Fatalf("got %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Candles(ctx, "X", time.Minute, time.Time{}, time.Time{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}
}
