// Package sqlite persists candles in a WAL-mode SQLite file so backtests can
// replay history without the original CSVs.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/evdnx/stratbook/logger"
	"github.com/evdnx/stratbook/types"

	_ "github.com/mattn/go-sqlite3"
)

const (
	defaultBatchSize  = 100
	defaultFlushDelay = 200 * time.Millisecond
)

func dsn(path string) string {
	return path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
}

// Writer is a single-connection candle writer.
type Writer struct {
	db  *sql.DB
	log logger.Logger
}

// NewWriter opens (and creates) the database and its schema.
func NewWriter(path string, log logger.Logger) (*Writer, error) {
	if log == nil {
		log = logger.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite dir: %w", err)
	}
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	log.Info("sqlite_opened", logger.String("path", path))
	return &Writer{db: db, log: log}, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS candles (
			symbol    TEXT    NOT NULL,
			tf        INTEGER NOT NULL,
			open_time INTEGER NOT NULL,
			open      REAL    NOT NULL,
			high      REAL    NOT NULL,
			low       REAL    NOT NULL,
			close     REAL    NOT NULL,
			volume    REAL,
			PRIMARY KEY (symbol, tf, open_time)
		);
	`)
	return err
}

// SaveCandles upserts candles in one transaction. Active candles are skipped.
func (w *Writer) SaveCandles(ctx context.Context, candles []types.Candle) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO candles (symbol, tf, open_time, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, c := range candles {
		if !c.Finished() {
			continue
		}
		_, err := stmt.ExecContext(ctx, c.Symbol, int64(c.Timeframe/time.Second), c.OpenTime.Unix(),
			c.Open, c.High, c.Low, c.Close, c.Volume)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert %s %s: %w", c.Symbol, c.OpenTime, err)
		}
	}
	return tx.Commit()
}

// Run drains candleCh into batched transactions until ctx is cancelled or
// the channel is closed; pending candles are flushed on exit.
func (w *Writer) Run(ctx context.Context, candleCh <-chan types.Candle) {
	batch := make([]types.Candle, 0, defaultBatchSize)
	timer := time.NewTimer(defaultFlushDelay)
	defer timer.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		start := time.Now()
		// a cancelled ctx must not lose the final batch
		if err := w.SaveCandles(context.Background(), batch); err != nil {
			w.log.Error("sqlite_batch_failed", logger.Int("candles", len(batch)), logger.Err(err))
		} else {
			w.log.Debug("sqlite_batch_committed",
				logger.Int("candles", len(batch)),
				logger.Duration("took", time.Since(start)))
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return
		case c, ok := <-candleCh:
			if !ok {
				flush()
				return
			}
			batch = append(batch, c)
			if len(batch) >= defaultBatchSize {
				flush()
				timer.Reset(defaultFlushDelay)
			}
		case <-timer.C:
			flush()
			timer.Reset(defaultFlushDelay)
		}
	}
}

// LastOpenTime returns the newest stored candle time, zero when none exist.
func (w *Writer) LastOpenTime(ctx context.Context, symbol string, tf time.Duration) (time.Time, error) {
	var ts sql.NullInt64
	err := w.db.QueryRowContext(ctx,
		`SELECT MAX(open_time) FROM candles WHERE symbol = ? AND tf = ?`,
		symbol, int64(tf/time.Second),
	).Scan(&ts)
	if err != nil || !ts.Valid {
		return time.Time{}, err
	}
	return time.Unix(ts.Int64, 0).UTC(), nil
}

func (w *Writer) Close() error { return w.db.Close() }
