// Package postgres reads candle history from a shared Postgres/Timescale
// database.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/evdnx/stratbook/marketdata"
	"github.com/evdnx/stratbook/types"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Schema is the table Reader expects. Import tools create it with
// CreateSchema.
const Schema = `
CREATE TABLE IF NOT EXISTS candles (
	symbol    TEXT             NOT NULL,
	tf        BIGINT           NOT NULL,
	open_time TIMESTAMPTZ      NOT NULL,
	open      DOUBLE PRECISION NOT NULL,
	high      DOUBLE PRECISION NOT NULL,
	low       DOUBLE PRECISION NOT NULL,
	close     DOUBLE PRECISION NOT NULL,
	volume    DOUBLE PRECISION NOT NULL DEFAULT 0,
	PRIMARY KEY (symbol, tf, open_time)
)`

// Reader implements marketdata.Source over a pgx pool.
type Reader struct {
	pool *pgxpool.Pool
}

var _ marketdata.Source = (*Reader)(nil)

func Connect(ctx context.Context, dsn string) (*Reader, error) {
	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	return &Reader{pool: pool}, nil
}

func (r *Reader) CreateSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, Schema)
	return err
}

// Candles returns candles with open time in [from, to), ascending. tf is
// stored in seconds.
func (r *Reader) Candles(ctx context.Context, symbol string, tf time.Duration, from, to time.Time) ([]types.Candle, error) {
	query := `
		SELECT open_time, open, high, low, close, volume
		FROM candles
		WHERE symbol = $1 AND tf = $2 AND open_time >= $3`
	args := []interface{}{symbol, int64(tf / time.Second), from.UTC()}
	if !to.IsZero() {
		query += ` AND open_time < $4`
		args = append(args, to.UTC())
	}
	query += ` ORDER BY open_time ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres query candles: %w", err)
	}
	defer rows.Close()

	var out []types.Candle
	for rows.Next() {
		c := types.Candle{Symbol: symbol, Timeframe: tf, State: types.CandleFinished}
		if err := rows.Scan(&c.OpenTime, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("postgres scan candles: %w", err)
		}
		c.OpenTime = c.OpenTime.UTC()
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

// SaveCandles upserts finished candles in one transaction.
func (r *Reader) SaveCandles(ctx context.Context, candles []types.Candle) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	for _, c := range candles {
		if !c.Finished() {
			continue
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO candles (symbol, tf, open_time, open, high, low, close, volume)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (symbol, tf, open_time) DO UPDATE
			SET open = EXCLUDED.open, high = EXCLUDED.high, low = EXCLUDED.low,
			    close = EXCLUDED.close, volume = EXCLUDED.volume`,
			c.Symbol, int64(c.Timeframe/time.Second), c.OpenTime.UTC(),
			c.Open, c.High, c.Low, c.Close, c.Volume)
		if err != nil {
			return fmt.Errorf("upsert %s %s: %w", c.Symbol, c.OpenTime, err)
		}
	}
	return tx.Commit(ctx)
}

func (r *Reader) Close() { r.pool.Close() }
