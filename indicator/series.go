package indicator

import (
	"github.com/evdnx/stratbook/types"
	"github.com/markcheno/go-talib"
)

// Series keeps the most recent OHLCV history and evaluates TA-Lib functions
// on it. Every lookup returns ok=false until enough candles were added for
// the function's lookback.
type Series struct {
	capacity int
	open     []float64
	high     []float64
	low      []float64
	close    []float64
	volume   []float64
}

// NewSeries keeps at least capacity candles; use a few times the longest
// lookback so that recursive averages settle.
func NewSeries(capacity int) *Series {
	if capacity < 16 {
		capacity = 16
	}
	return &Series{capacity: capacity}
}

func (s *Series) Add(c types.Candle) {
	s.open = append(s.open, c.Open)
	s.high = append(s.high, c.High)
	s.low = append(s.low, c.Low)
	s.close = append(s.close, c.Close)
	s.volume = append(s.volume, c.Volume)
	if len(s.close) > 2*s.capacity {
		s.open = trim(s.open, s.capacity)
		s.high = trim(s.high, s.capacity)
		s.low = trim(s.low, s.capacity)
		s.close = trim(s.close, s.capacity)
		s.volume = trim(s.volume, s.capacity)
	}
}

func trim(v []float64, n int) []float64 {
	out := make([]float64, n, 2*n+1)
	copy(out, v[len(v)-n:])
	return out
}

func (s *Series) Len() int { return len(s.close) }

// Close returns the close n bars ago (0 = latest).
func (s *Series) Close(n int) float64 { return at(s.close, n) }
func (s *Series) High(n int) float64  { return at(s.high, n) }
func (s *Series) Low(n int) float64   { return at(s.low, n) }
func (s *Series) Open(n int) float64  { return at(s.open, n) }

func at(v []float64, n int) float64 {
	if n < 0 || n >= len(v) {
		return 0
	}
	return v[len(v)-1-n]
}

func (s *Series) Reset() {
	s.open, s.high, s.low, s.close, s.volume = nil, nil, nil, nil, nil
}

func last(v []float64) float64 { return v[len(v)-1] }

func (s *Series) RSI(period int) (float64, bool) {
	if s.Len() <= period {
		return 0, false
	}
	return last(talib.Rsi(s.close, period)), true
}

func (s *Series) WMA(period int) (float64, bool) {
	if s.Len() < period {
		return 0, false
	}
	return last(talib.Wma(s.close, period)), true
}

// MACD returns the MACD line, its signal line and the histogram.
func (s *Series) MACD(fast, slow, signal int) (macd, sig, hist float64, ok bool) {
	if s.Len() < slow+signal {
		return 0, 0, 0, false
	}
	m, sg, h := talib.Macd(s.close, fast, slow, signal)
	return last(m), last(sg), last(h), true
}

// Bollinger returns the upper, middle and lower band of an SMA ± k·σ envelope.
func (s *Series) Bollinger(period int, k float64) (upper, middle, lower float64, ok bool) {
	if s.Len() < period {
		return 0, 0, 0, false
	}
	u, m, l := talib.BBands(s.close, period, k, k, talib.SMA)
	return last(u), last(m), last(l), true
}

func (s *Series) WilliamsR(period int) (float64, bool) {
	if s.Len() < period {
		return 0, false
	}
	return last(talib.WillR(s.high, s.low, s.close, period)), true
}

func (s *Series) ATR(period int) (float64, bool) {
	if s.Len() <= period {
		return 0, false
	}
	return last(talib.Atr(s.high, s.low, s.close, period)), true
}

// Stochastic returns the slow %K and %D lines.
func (s *Series) Stochastic(kPeriod, slowK, dPeriod int) (k, d float64, ok bool) {
	if s.Len() < kPeriod+slowK+dPeriod {
		return 0, 0, false
	}
	ks, ds := talib.Stoch(s.high, s.low, s.close, kPeriod, slowK, talib.SMA, dPeriod, talib.SMA)
	return last(ks), last(ds), true
}

func (s *Series) CCI(period int) (float64, bool) {
	if s.Len() < period {
		return 0, false
	}
	return last(talib.Cci(s.high, s.low, s.close, period)), true
}

// ADX returns the average directional index with the +DI and -DI lines.
func (s *Series) ADX(period int) (adx, plusDI, minusDI float64, ok bool) {
	if s.Len() <= 2*period {
		return 0, 0, 0, false
	}
	adx = last(talib.Adx(s.high, s.low, s.close, period))
	plusDI = last(talib.PlusDI(s.high, s.low, s.close, period))
	minusDI = last(talib.MinusDI(s.high, s.low, s.close, period))
	return adx, plusDI, minusDI, true
}

func (s *Series) SAR(acceleration, maximum float64) (float64, bool) {
	if s.Len() < 3 {
		return 0, false
	}
	return last(talib.Sar(s.high, s.low, acceleration, maximum)), true
}

// ROC is the percent rate of change over period bars.
func (s *Series) ROC(period int) (float64, bool) {
	if s.Len() <= period {
		return 0, false
	}
	return last(talib.Roc(s.close, period)), true
}

func (s *Series) Momentum(period int) (float64, bool) {
	if s.Len() <= period {
		return 0, false
	}
	return last(talib.Mom(s.close, period)), true
}

func (s *Series) StdDev(period int) (float64, bool) {
	if s.Len() < period {
		return 0, false
	}
	return last(talib.StdDev(s.close, period, 1)), true
}
