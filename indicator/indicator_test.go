package indicator

import (
	"math"
	"testing"
	"time"

	"github.com/evdnx/stratbook/types"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestWindowKeepsSize(t *testing.T) {
	w := NewWindow(3)
	for i := 1; i <= 5; i++ {
		ev, ok := w.Push(float64(i))
		if i > 3 && (!ok || ev != float64(i-3)) {
			t.Fatalf("push %d: expected eviction of %d, got %v %v", i, i-3, ev, ok)
		}
		if w.Len() > 3 {
			t.Fatalf("window grew beyond its size: %d", w.Len())
		}
	}
	if got := w.Values(); len(got) != 3 || got[0] != 3 || got[2] != 5 {
		t.Fatalf("unexpected values %v", got)
	}
	if w.Sum() != 12 || w.Mean() != 4 || w.Max() != 5 || w.Min() != 3 {
		t.Fatalf("unexpected stats sum=%v mean=%v max=%v min=%v", w.Sum(), w.Mean(), w.Max(), w.Min())
	}
	if w.Last(0) != 5 || w.Last(2) != 3 || w.Last(3) != 0 {
		t.Fatalf("unexpected Last lookups")
	}
	w.Reset()
	if w.Len() != 0 || w.Sum() != 0 {
		t.Fatal("reset must clear the window")
	}
}

func TestSMAAndEMA(t *testing.T) {
	sma := NewSMA(3)
	ema := NewEMA(3)
	for _, v := range []float64{1, 2, 3} {
		sma.Process(v)
		ema.Process(v)
	}
	if !sma.Ready() || sma.Value() != 2 {
		t.Fatalf("sma = %v ready=%v", sma.Value(), sma.Ready())
	}
	if !ema.Ready() || ema.Value() != 2 {
		t.Fatalf("ema seed = %v", ema.Value())
	}
	// multiplier 0.5: 4*0.5 + 2*0.5
	if got := ema.Process(4); got != 3 {
		t.Fatalf("ema = %v, want 3", got)
	}
	if got := sma.Process(4); got != 3 {
		t.Fatalf("sma = %v, want 3", got)
	}
	ema.Reset()
	if ema.Ready() || ema.Value() != 0 {
		t.Fatal("ema reset")
	}
}

func TestAveragesWarmUpAndSkipNonFinite(t *testing.T) {
	sma := NewSMA(4)
	ema := NewEMA(4)
	if sma.Value() != 0 || ema.Value() != 0 {
		t.Fatal("empty averages must read 0")
	}
	for _, v := range []float64{2, 4} {
		sma.Process(v)
		ema.Process(v)
	}
	if sma.Ready() || sma.Value() != 3 || ema.Value() != 3 {
		t.Fatalf("warm-up mean sma=%v ema=%v", sma.Value(), ema.Value())
	}
	sma.Process(math.NaN())
	ema.Process(math.Inf(1))
	if sma.Value() != 3 || ema.Value() != 3 {
		t.Fatalf("non-finite sample leaked: sma=%v ema=%v", sma.Value(), ema.Value())
	}
	for _, v := range []float64{6, 8} {
		sma.Process(v)
		ema.Process(v)
	}
	if !sma.Ready() || !ema.Ready() || sma.Value() != 5 || ema.Value() != 5 {
		t.Fatalf("seeded sma=%v ema=%v", sma.Value(), ema.Value())
	}
	// multiplier 0.4: 10*0.4 + 5*0.6
	if got := ema.Process(10); !almostEqual(got, 7) {
		t.Fatalf("ema = %v, want 7", got)
	}
	if got := sma.Process(10); got != 7 {
		t.Fatalf("sma = %v, want 7", got)
	}
	sma.Reset()
	if sma.Ready() || sma.Value() != 0 {
		t.Fatal("sma reset")
	}
}

func TestCrossHelpers(t *testing.T) {
	if !CrossAbove(1, 2, 3, 2) || CrossAbove(3, 2, 4, 2) {
		t.Fatal("CrossAbove")
	}
	if !CrossBelow(3, 2, 1, 2) || CrossBelow(1, 2, 0, 2) {
		t.Fatal("CrossBelow")
	}
}

func staircase(n int) []types.Candle {
	out := make([]types.Candle, n)
	for i := range out {
		f := float64(i)
		out[i] = types.Candle{
			Symbol: "T", Timeframe: time.Minute,
			Open: f, High: f + 1, Low: f, Close: f + 0.5, Volume: 100,
			State: types.CandleFinished,
		}
	}
	return out
}

func TestDonchian(t *testing.T) {
	d := NewDonchian(3)
	for _, c := range staircase(5) {
		d.Process(c)
	}
	if !d.Ready() || d.Upper() != 5 || d.Lower() != 2 || d.Middle() != 3.5 {
		t.Fatalf("donchian upper=%v lower=%v", d.Upper(), d.Lower())
	}
}

func TestIchimokuDisplacedCloud(t *testing.T) {
	ich := NewIchimoku(2, 3, 4)
	if ich.SenkouA() != 0 || ich.SenkouB() != 0 || ich.CloudTop() != 0 {
		t.Fatal("empty cloud must read 0")
	}
	bars := staircase(7)
	for i, c := range bars {
		ich.Process(c)
		if i < 6 && (ich.SenkouA() != 0 || ich.SenkouB() != 0) {
			t.Fatalf("span leaked before displacement at bar %d", i)
		}
		if i < 6 && ich.Ready() {
			t.Fatalf("cloud ready too early at bar %d", i)
		}
	}
	if !ich.Ready() {
		t.Fatal("cloud should be ready after 7 bars")
	}
	if ich.Tenkan() != 6 || ich.Kijun() != 5.5 {
		t.Fatalf("tenkan=%v kijun=%v", ich.Tenkan(), ich.Kijun())
	}
	// spans computed on bar 3 are in effect on bar 6
	if ich.SenkouA() != 2.75 || ich.SenkouB() != 2 {
		t.Fatalf("senkouA=%v senkouB=%v", ich.SenkouA(), ich.SenkouB())
	}
	if ich.CloudTop() != 2.75 || ich.CloudBottom() != 2 {
		t.Fatal("cloud bounds")
	}
	ich.Reset()
	if ich.Ready() || ich.CloudBottom() != 0 {
		t.Fatal("reset must clear the cloud")
	}
}

func TestHeikinAshi(t *testing.T) {
	var ha HeikinAshi
	first := ha.Process(types.Candle{Open: 10, High: 12, Low: 9, Close: 11})
	if first.Open != 10.5 || first.Close != 10.5 {
		t.Fatalf("first HA candle %+v", first)
	}
	second := ha.Process(types.Candle{Open: 11, High: 14, Low: 11, Close: 13})
	if second.Open != 10.5 || second.Close != 12.25 || second.High != 14 || second.Low != 10.5 {
		t.Fatalf("second HA candle %+v", second)
	}
}

func TestSuperSmootherTracksConstant(t *testing.T) {
	ss := NewSuperSmoother(10)
	var v float64
	for i := 0; i < 50; i++ {
		v = ss.Process(42)
	}
	if !almostEqual(v, 42) {
		t.Fatalf("expected the filter to settle on 42, got %v", v)
	}
}

func TestRoofingRemovesTrend(t *testing.T) {
	r := NewRoofing(48, 10)
	var v float64
	for i := 0; i < 400; i++ {
		v = r.Process(100 + float64(i)*0.5)
	}
	if math.Abs(v) > 0.05 {
		t.Fatalf("a linear trend should be filtered out, got %v", v)
	}
}

func TestMESAStochasticRange(t *testing.T) {
	m := NewMESAStochastic(20, 48, 10)
	for i := 0; i < 300; i++ {
		m.Process(100 + 5*math.Sin(float64(i)*2*math.Pi/30))
	}
	if !m.Ready() {
		t.Fatal("expected MESA stochastic to be ready")
	}
	if v := m.Value(); v < -0.2 || v > 1.2 {
		t.Fatalf("stochastic out of range: %v", v)
	}
	m.Reset()
	if m.Ready() {
		t.Fatal("reset")
	}
}

func TestSeriesWarmupAndValues(t *testing.T) {
	s := NewSeries(64)
	if _, ok := s.RSI(14); ok {
		t.Fatal("RSI must not be ready on an empty series")
	}
	for _, c := range staircase(60) {
		s.Add(c)
	}
	rsi, ok := s.RSI(14)
	if !ok || !almostEqual(rsi, 100) {
		t.Fatalf("rising series RSI = %v ok=%v", rsi, ok)
	}
	macd, _, _, ok := s.MACD(12, 26, 9)
	if !ok || macd <= 0 {
		t.Fatalf("rising series MACD = %v ok=%v", macd, ok)
	}
	if wr, ok := s.WilliamsR(14); !ok || wr < -5 {
		t.Fatalf("close near the top should give %%R near 0, got %v", wr)
	}
	if roc, ok := s.ROC(10); !ok || roc <= 0 {
		t.Fatalf("ROC = %v", roc)
	}
	if s.Close(0) != 59.5 || s.High(1) != 59 {
		t.Fatalf("lookback accessors: close=%v high=%v", s.Close(0), s.High(1))
	}
}

func TestSeriesBollingerFlat(t *testing.T) {
	s := NewSeries(32)
	for i := 0; i < 30; i++ {
		s.Add(types.Candle{Open: 100, High: 100, Low: 100, Close: 100})
	}
	u, m, l, ok := s.Bollinger(20, 2)
	if !ok || !almostEqual(u, 100) || !almostEqual(m, 100) || !almostEqual(l, 100) {
		t.Fatalf("flat bands u=%v m=%v l=%v", u, m, l)
	}
}

func TestSeriesTrimKeepsCapacity(t *testing.T) {
	s := NewSeries(16)
	for _, c := range staircase(100) {
		s.Add(c)
	}
	if s.Len() > 32 || s.Len() < 16 {
		t.Fatalf("series length %d outside [16,32]", s.Len())
	}
	if s.Close(0) != 99.5 {
		t.Fatalf("latest close lost after trim: %v", s.Close(0))
	}
}
