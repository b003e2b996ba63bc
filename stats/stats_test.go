package stats

import (
	"math"
	"testing"
)

func near(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func TestMeanVariance(t *testing.T) {
	x := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if Mean(x) != 5 {
		t.Fatalf("mean = %v", Mean(x))
	}
	// sample variance: 32 / 7
	if !near(Variance(x), 32.0/7, 1e-12) {
		t.Fatalf("variance = %v", Variance(x))
	}
	if Variance([]float64{1}) != 0 || Mean(nil) != 0 {
		t.Fatal("degenerate inputs must return 0")
	}
}

func TestSkewness(t *testing.T) {
	if s := Skewness([]float64{1, 2, 3, 4, 5}); !near(s, 0, 1e-12) {
		t.Fatalf("symmetric sample skew = %v", s)
	}
	if s := Skewness([]float64{1, 1, 1, 1, 10}); s <= 0 {
		t.Fatalf("right tail must give positive skew, got %v", s)
	}
	if s := Skewness([]float64{-10, 1, 1, 1, 1}); s >= 0 {
		t.Fatalf("left tail must give negative skew, got %v", s)
	}
	if Skewness([]float64{3, 3, 3}) != 0 {
		t.Fatal("no spread must give 0")
	}
}

func TestRanksWithTies(t *testing.T) {
	got := Ranks([]float64{10, 20, 20, 5})
	want := []float64{2, 3.5, 3.5, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ranks = %v, want %v", got, want)
		}
	}
}

func TestSpearman(t *testing.T) {
	up := []float64{1, 2, 8, 9, 30}
	if r := Spearman(TimeIndex(len(up)), up); !near(r, 1, 1e-12) {
		t.Fatalf("increasing series rho = %v", r)
	}
	down := []float64{9, 7, 3, 2, 1}
	if r := Spearman(TimeIndex(len(down)), down); !near(r, -1, 1e-12) {
		t.Fatalf("decreasing series rho = %v", r)
	}
	if r := Spearman([]float64{1, 2}, []float64{1}); r != 0 {
		t.Fatal("length mismatch must give 0")
	}
	if r := Spearman(TimeIndex(3), []float64{4, 4, 4}); r != 0 {
		t.Fatal("constant series must give 0")
	}
}

func TestZScoreAndLogReturns(t *testing.T) {
	if z := ZScore([]float64{1, 1, 1, 1}); z != 0 {
		t.Fatalf("flat z = %v", z)
	}
	if z := ZScore([]float64{1, 2, 3, 10}); z <= 1 {
		t.Fatalf("outlier z = %v", z)
	}
	r := LogReturns([]float64{100, 110, 0, 121})
	if len(r) != 1 || !near(r[0], math.Log(1.1), 1e-12) {
		t.Fatalf("log returns = %v", r)
	}
}

func TestMonteCarloDeterministic(t *testing.T) {
	rets := []float64{0.01, 0.02, -0.005, 0.015}
	a := NewMonteCarlo(500, 10, 7).Simulate(rets)
	b := NewMonteCarlo(500, 10, 7).Simulate(rets)
	if a != b {
		t.Fatalf("same seed must give the same projection: %+v vs %+v", a, b)
	}
	if a.ProbUp < 0.9 {
		t.Fatalf("mostly positive returns should project upward, got %v", a.ProbUp)
	}
	if a.P05 > a.Mean || a.Mean > a.P95 {
		t.Fatalf("quantiles out of order: %+v", a)
	}
	neg := NewMonteCarlo(200, 5, 1).Simulate([]float64{-0.01, -0.02})
	if neg.ProbUp != 0 {
		t.Fatalf("all negative returns: ProbUp = %v", neg.ProbUp)
	}
	if (NewMonteCarlo(10, 1, 1).Simulate(nil) != Projection{}) {
		t.Fatal("empty history must give the zero projection")
	}
}
