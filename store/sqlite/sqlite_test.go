package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/evdnx/stratbook/marketdata"
	"github.com/evdnx/stratbook/testutils"
	"github.com/evdnx/stratbook/types"
)

func openPair(t *testing.T) (*Writer, *Reader) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "candles.db")
	w, err := NewWriter(path, testutils.NewMockLogger())
	if err != nil {
		t.Fatalf("writer: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("reader: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return w, r
}

func TestSaveAndReadCandles(t *testing.T) {
	w, r := openPair(t)
	ctx := context.Background()
	bars := testutils.Bars("X", 5*time.Minute, 100, 101, 102, 103)
	active := testutils.Bars("X", 5*time.Minute, 1)[0]
	active.OpenTime = bars[3].OpenTime.Add(5 * time.Minute)
	active.State = types.CandleActive

	if err := w.SaveCandles(ctx, append(bars, active)); err != nil {
		t.Fatal(err)
	}
	// upsert keeps one row per key
	if err := w.SaveCandles(ctx, bars[:1]); err != nil {
		t.Fatal(err)
	}

	got, err := r.Candles(ctx, "X", 5*time.Minute, bars[1].OpenTime, bars[3].OpenTime)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Close != 101 || got[1].Close != 102 {
		t.Fatalf("range read %+v", got)
	}
	if !got[0].Finished() || got[0].Symbol != "X" || !got[0].OpenTime.Equal(bars[1].OpenTime) {
		t.Fatalf("candle %+v", got[0])
	}

	all, err := r.Candles(ctx, "X", 5*time.Minute, time.Time{}, time.Time{})
	if err != nil || len(all) != 4 {
		t.Fatalf("open ended read: %v %d", err, len(all))
	}
	last, err := w.LastOpenTime(ctx, "X", 5*time.Minute)
	if err != nil || !last.Equal(bars[3].OpenTime) {
		t.Fatalf("last open time %v %v", last, err)
	}
	if _, err := r.Candles(ctx, "X", time.Hour, time.Time{}, time.Time{}); !errors.Is(err, marketdata.ErrNoData) {
		t.Fatalf("got %v, want ErrNoData", err)
	}

	subs, err := r.Symbols(ctx)
	if err != nil || len(subs) != 1 || subs[0].Timeframe != 5*time.Minute {
		t.Fatalf("symbols %+v %v", subs, err)
	}
}

func TestWriterRunFlushesOnClose(t *testing.T) {
	w, r := openPair(t)
	ch := make(chan types.Candle)
	done := make(chan struct{})
	go func() {
		w.Run(context.Background(), ch)
		close(done)
	}()
	for _, c := range testutils.Bars("Y", time.Minute, 1, 2, 3) {
		ch <- c
	}
	close(ch)
	<-done

	got, err := r.Candles(context.Background(), "Y", time.Minute, time.Time{}, time.Time{})
	if err != nil || len(got) != 3 {
		t.Fatalf("got %d candles, err %v", len(got), err)
	}
}
