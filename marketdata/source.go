// Package marketdata turns raw market data into the finished candles the
// strategy host consumes: timeframe resampling, quote aggregation and CSV
// history.
package marketdata

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/evdnx/stratbook/types"
)

var ErrNoData = errors.New("marketdata: no candles in range")

// Source serves historical candles. Implementations return candles ordered by
// OpenTime with OpenTime in [from, to); a zero to means open ended.
type Source interface {
	Candles(ctx context.Context, symbol string, tf time.Duration, from, to time.Time) ([]types.Candle, error)
}

// SliceSource is an in-memory Source over already loaded candles.
type SliceSource struct {
	candles []types.Candle
}

func NewSliceSource(candles []types.Candle) *SliceSource {
	sorted := append([]types.Candle(nil), candles...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].OpenTime.Before(sorted[j].OpenTime) })
	return &SliceSource{candles: sorted}
}

func (s *SliceSource) Candles(ctx context.Context, symbol string, tf time.Duration, from, to time.Time) ([]types.Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []types.Candle
	for _, c := range s.candles {
		if c.Symbol != symbol || c.Timeframe != tf {
			continue
		}
		if c.OpenTime.Before(from) || (!to.IsZero() && !c.OpenTime.Before(to)) {
			continue
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, ErrNoData
	}
	return out, nil
}
