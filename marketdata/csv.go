package marketdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/evdnx/stratbook/types"
)

var ErrBadRow = errors.New("marketdata: malformed csv row")

// LoadCSV reads time,open,high,low,close,volume rows into finished candles of
// symbol and tf. A header row is skipped. Times are RFC3339, "2006-01-02
// 15:04:05" (UTC) or Unix seconds. Rows must be in ascending time order.
func LoadCSV(r io.Reader, symbol string, tf time.Duration) ([]types.Candle, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []types.Candle
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if line == 1 && isHeader(rec) {
			continue
		}
		c, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if n := len(out); n > 0 && !c.OpenTime.After(out[n-1].OpenTime) {
			return nil, fmt.Errorf("line %d: %w: time %s not after %s", line, ErrBadRow, c.OpenTime, out[n-1].OpenTime)
		}
		c.Symbol, c.Timeframe, c.State = symbol, tf, types.CandleFinished
		out = append(out, c)
	}
	return out, nil
}

func isHeader(rec []string) bool {
	return len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "time")
}

func parseRow(rec []string) (types.Candle, error) {
	if len(rec) < 5 {
		return types.Candle{}, fmt.Errorf("%w: want at least 5 fields, got %d", ErrBadRow, len(rec))
	}
	ts, err := parseTime(strings.TrimSpace(rec[0]))
	if err != nil {
		return types.Candle{}, err
	}
	var v [5]float64
	for i := 1; i < len(rec) && i <= 5; i++ {
		f, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
		if err != nil {
			return types.Candle{}, fmt.Errorf("%w: field %d: %v", ErrBadRow, i+1, err)
		}
		v[i-1] = f
	}
	c := types.Candle{OpenTime: ts, Open: v[0], High: v[1], Low: v[2], Close: v[3], Volume: v[4]}
	if c.High < c.Low || c.Open <= 0 || c.Close <= 0 {
		return types.Candle{}, fmt.Errorf("%w: inconsistent prices o=%v h=%v l=%v c=%v", ErrBadRow, c.Open, c.High, c.Low, c.Close)
	}
	return c, nil
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateTime, s); err == nil {
		return t, nil
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: unparseable time %q", ErrBadRow, s)
}

// WriteCSV is the inverse of LoadCSV; it writes a header and RFC3339 times.
func WriteCSV(w io.Writer, candles []types.Candle) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "open", "high", "low", "close", "volume"}); err != nil {
		return err
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	for _, c := range candles {
		rec := []string{c.OpenTime.UTC().Format(time.RFC3339), f(c.Open), f(c.High), f(c.Low), f(c.Close), f(c.Volume)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
