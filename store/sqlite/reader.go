package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/evdnx/stratbook/marketdata"
	"github.com/evdnx/stratbook/types"

	_ "github.com/mattn/go-sqlite3"
)

// Reader provides read-only access for backtests. It implements
// marketdata.Source.
type Reader struct {
	db *sql.DB
}

var _ marketdata.Source = (*Reader)(nil)

func NewReader(path string) (*Reader, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("sqlite open reader: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(2)
	return &Reader{db: db}, nil
}

// Candles returns stored candles with open time in [from, to), ascending.
func (r *Reader) Candles(ctx context.Context, symbol string, tf time.Duration, from, to time.Time) ([]types.Candle, error) {
	until := int64(math.MaxInt64)
	if !to.IsZero() {
		until = to.Unix()
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT open_time, open, high, low, close, volume
		FROM candles
		WHERE symbol = ? AND tf = ? AND open_time >= ? AND open_time < ?
		ORDER BY open_time ASC
	`, symbol, int64(tf/time.Second), from.Unix(), until)
	if err != nil {
		return nil, fmt.Errorf("sqlite query candles: %w", err)
	}
	defer rows.Close()

	var out []types.Candle
	for rows.Next() {
		c := types.Candle{Symbol: symbol, Timeframe: tf, State: types.CandleFinished}
		var ts int64
		var vol sql.NullFloat64
		if err := rows.Scan(&ts, &c.Open, &c.High, &c.Low, &c.Close, &vol); err != nil {
			return nil, fmt.Errorf("sqlite scan candles: %w", err)
		}
		c.OpenTime = time.Unix(ts, 0).UTC()
		c.Volume = vol.Float64
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, marketdata.ErrNoData
	}
	return out, nil
}

// Symbols lists the stored symbol/timeframe pairs.
func (r *Reader) Symbols(ctx context.Context) ([]types.Subscription, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT symbol, tf FROM candles ORDER BY symbol, tf`)
	if err != nil {
		return nil, fmt.Errorf("sqlite query symbols: %w", err)
	}
	defer rows.Close()
	var out []types.Subscription
	for rows.Next() {
		var sub types.Subscription
		var secs int64
		if err := rows.Scan(&sub.Symbol, &secs); err != nil {
			return nil, err
		}
		sub.Timeframe = time.Duration(secs) * time.Second
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (r *Reader) Close() error { return r.db.Close() }
