package marketdata

import (
	"sort"
	"time"

	"github.com/evdnx/stratbook/types"
)

// TickAggregator builds candles of one timeframe from quote prices. A quote
// in a later bucket finishes the forming candle; quotes for an already closed
// bucket are dropped.
type TickAggregator struct {
	tf     time.Duration
	states map[string]*bucketState
	closed map[string]time.Time

	// OnDropped is called for every late quote (optional).
	OnDropped func(q types.Quote)
}

func NewTickAggregator(tf time.Duration) *TickAggregator {
	return &TickAggregator{
		tf:     tf,
		states: make(map[string]*bucketState),
		closed: make(map[string]time.Time),
	}
}

func (a *TickAggregator) Timeframe() time.Duration { return a.tf }

// Add folds q into its symbol's candle and returns the candle it finished.
func (a *TickAggregator) Add(q types.Quote) (types.Candle, bool) {
	px := q.Price()
	if px <= 0 || q.Symbol == "" {
		return types.Candle{}, false
	}
	bucket := Align(q.Time, a.tf)
	st, ok := a.states[q.Symbol]
	end, wasClosed := a.closed[q.Symbol]
	if (ok && bucket.Before(st.bucket)) || (wasClosed && bucket.Before(end)) {
		if a.OnDropped != nil {
			a.OnDropped(q)
		}
		return types.Candle{}, false
	}
	if ok && bucket.Equal(st.bucket) {
		c := &st.candle
		c.High = max(c.High, px)
		c.Low = min(c.Low, px)
		c.Close = px
		c.Volume += q.Volume
		return types.Candle{}, false
	}

	var done types.Candle
	if ok {
		done = a.finish(q.Symbol, st)
	}
	a.states[q.Symbol] = &bucketState{bucket: bucket, candle: types.Candle{
		Symbol:    q.Symbol,
		Timeframe: a.tf,
		OpenTime:  bucket,
		Open:      px,
		High:      px,
		Low:       px,
		Close:     px,
		Volume:    q.Volume,
		State:     types.CandleActive,
	}}
	return done, ok
}

// Expire finishes candles whose bucket ended at or before now. The live
// runner calls it on a ticker so quiet symbols still close their bars.
func (a *TickAggregator) Expire(now time.Time) []types.Candle {
	var out []types.Candle
	for sym, st := range a.states {
		if now.Before(st.candle.CloseTime()) {
			continue
		}
		out = append(out, a.finish(sym, st))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Flush finishes all forming candles.
func (a *TickAggregator) Flush() []types.Candle {
	var out []types.Candle
	for sym, st := range a.states {
		out = append(out, a.finish(sym, st))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

func (a *TickAggregator) finish(symbol string, st *bucketState) types.Candle {
	done := st.candle
	done.State = types.CandleFinished
	delete(a.states, symbol)
	a.closed[symbol] = st.bucket.Add(a.tf)
	return done
}
