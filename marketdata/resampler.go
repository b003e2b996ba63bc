package marketdata

import (
	"sort"
	"time"

	"github.com/evdnx/stratbook/types"
)

// bucketState is the forming higher timeframe candle of one symbol.
type bucketState struct {
	bucket time.Time
	candle types.Candle
}

// Resampler folds finished base candles into a higher timeframe. Buckets are
// aligned to multiples of the timeframe since the Unix epoch. A bucket is
// emitted as soon as a base candle closing at its end arrives, or when the
// first candle of a later bucket shows up after a gap. Candles older than
// the forming bucket are dropped.
type Resampler struct {
	tf      time.Duration
	states  map[string]*bucketState
	closed  map[string]time.Time // end of the last emitted bucket
	dropped int
}

func NewResampler(tf time.Duration) *Resampler {
	return &Resampler{
		tf:     tf,
		states: make(map[string]*bucketState),
		closed: make(map[string]time.Time),
	}
}

func (r *Resampler) Timeframe() time.Duration { return r.tf }

// Dropped counts late candles that were discarded.
func (r *Resampler) Dropped() int { return r.dropped }

// Align returns the start of the tf bucket containing t.
func Align(t time.Time, tf time.Duration) time.Time {
	if tf <= 0 {
		return t
	}
	ns := t.UnixNano()
	return time.Unix(0, ns-mod(ns, int64(tf))).In(t.Location())
}

func mod(a, b int64) int64 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// Process adds one base candle and returns the buckets it finished, oldest
// first. Active candles and candles wider than the target are ignored.
func (r *Resampler) Process(c types.Candle) []types.Candle {
	if !c.Finished() || c.Timeframe > r.tf {
		return nil
	}
	bucket := Align(c.OpenTime, r.tf)
	if end, ok := r.closed[c.Symbol]; ok && bucket.Before(end) {
		r.dropped++
		return nil
	}

	var out []types.Candle
	st, ok := r.states[c.Symbol]
	switch {
	case ok && bucket.Before(st.bucket):
		r.dropped++
		return nil
	case ok && bucket.After(st.bucket):
		// gap: the previous bucket never saw its closing candle
		out = append(out, r.finish(c.Symbol, st))
		ok = false
	}
	if !ok {
		st = &bucketState{bucket: bucket, candle: r.open(c, bucket)}
		r.states[c.Symbol] = st
	} else {
		fold(&st.candle, c)
	}
	if !c.CloseTime().Before(bucket.Add(r.tf)) {
		out = append(out, r.finish(c.Symbol, st))
	}
	return out
}

func (r *Resampler) finish(symbol string, st *bucketState) types.Candle {
	done := st.candle
	done.State = types.CandleFinished
	delete(r.states, symbol)
	r.closed[symbol] = st.bucket.Add(r.tf)
	return done
}

func (r *Resampler) open(c types.Candle, bucket time.Time) types.Candle {
	c.Timeframe = r.tf
	c.OpenTime = bucket
	c.State = types.CandleActive
	return c
}

func fold(dst *types.Candle, c types.Candle) {
	if c.High > dst.High {
		dst.High = c.High
	}
	if c.Low < dst.Low {
		dst.Low = c.Low
	}
	dst.Close = c.Close
	dst.Volume += c.Volume
}

// Current returns the forming candle of symbol.
func (r *Resampler) Current(symbol string) (types.Candle, bool) {
	st, ok := r.states[symbol]
	if !ok {
		return types.Candle{}, false
	}
	return st.candle, true
}

// Flush finishes every forming bucket, ordered by symbol, and clears state.
func (r *Resampler) Flush() []types.Candle {
	out := make([]types.Candle, 0, len(r.states))
	for sym, st := range r.states {
		out = append(out, r.finish(sym, st))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}
