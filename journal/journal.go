// Package journal records fills outside the process: a capped Redis stream
// for live runs and an in-memory sink for tests and dry runs.
package journal

import (
	"context"
	"sync"
	"time"

	"github.com/evdnx/stratbook/logger"
	"github.com/evdnx/stratbook/types"
)

// Sink stores one trade.
type Sink interface {
	Record(ctx context.Context, tr types.Trade) error
}

// FillSource is an executor that reports fills.
type FillSource interface {
	OnFill(fn func(types.Trade))
}

const recordTimeout = 2 * time.Second

// Attach forwards every fill of src to sink. Failures are logged; a slow sink
// is bounded by a per-record timeout.
func Attach(ctx context.Context, src FillSource, sink Sink, log logger.Logger) {
	if log == nil {
		log = logger.NewNop()
	}
	src.OnFill(func(tr types.Trade) {
		rctx, cancel := context.WithTimeout(ctx, recordTimeout)
		defer cancel()
		if err := sink.Record(rctx, tr); err != nil {
			log.Error("journal_record_failed",
				logger.String("order_id", tr.OrderID),
				logger.String("symbol", tr.Symbol),
				logger.Err(err))
		}
	})
}

// MemoryJournal keeps trades in insertion order.
type MemoryJournal struct {
	mu     sync.Mutex
	trades []types.Trade
}

func NewMemoryJournal() *MemoryJournal { return &MemoryJournal{} }

func (m *MemoryJournal) Record(ctx context.Context, tr types.Trade) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.trades = append(m.trades, tr)
	m.mu.Unlock()
	return nil
}

// Trades returns a copy.
func (m *MemoryJournal) Trades() []types.Trade {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.Trade(nil), m.trades...)
}
