package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/evdnx/stratbook/marketdata"
	"github.com/evdnx/stratbook/testutils"
)

// Runs only against a disposable database.
func TestReaderRoundTrip(t *testing.T) {
	dsn := os.Getenv("STRATBOOK_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("STRATBOOK_TEST_POSTGRES_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	r, err := Connect(ctx, dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if err := r.CreateSchema(ctx); err != nil {
		t.Fatal(err)
	}
	symbol := "PGTEST" + time.Now().Format("150405.000")
	t.Cleanup(func() {
		r.pool.Exec(context.Background(), `DELETE FROM candles WHERE symbol = $1`, symbol)
	})

	bars := testutils.Bars(symbol, time.Minute, 10, 11, 12)
	if err := r.SaveCandles(ctx, bars); err != nil {
		t.Fatal(err)
	}
	got, err := r.Candles(ctx, symbol, time.Minute, bars[1].OpenTime, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Close != 11 || !got[1].OpenTime.Equal(bars[2].OpenTime) {
		t.Fatalf("got %+v", got)
	}
	if _, err := r.Candles(ctx, symbol, time.Hour, time.Time{}, time.Time{}); !errors.Is(err, marketdata.ErrNoData) {
		t.Fatalf("got %v, want ErrNoData", err)
	}
}
