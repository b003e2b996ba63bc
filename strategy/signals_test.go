package strategy

import "testing"

func TestCrossingFiresOncePerCross(t *testing.T) {
	var c crossing
	steps := []struct {
		a, b float64
		want int
	}{
		{1, 2, 0}, // first observation only sets the side
		{1, 2, 0},
		{3, 2, 1},
		{4, 2, 0},
		{2, 2, 0}, // touching keeps the side
		{1, 2, -1},
		{0, 2, 0},
	}
	for i, s := range steps {
		if got := c.update(s.a, s.b); got != s.want {
			t.Fatalf("step %d: got %d, want %d", i, got, s.want)
		}
	}
	c.reset()
	if got := c.update(3, 2); got != 0 {
		t.Fatal("reset crossing must not fire on its first observation")
	}
}

func TestCrossingFromEquality(t *testing.T) {
	var c crossing
	c.update(100, 100)
	if got := c.update(101, 100); got != 1 {
		t.Fatalf("leaving an equal start is a cross, got %d", got)
	}
}

func TestZone(t *testing.T) {
	z := zone{lower: 30, upper: 70}
	seq := []struct {
		v    float64
		want int
	}{{50, 0}, {25, 0}, {28, 0}, {31, 1}, {75, 0}, {69, -1}, {60, 0}}
	for i, s := range seq {
		if got := z.update(s.v); got != s.want {
			t.Fatalf("step %d: got %d, want %d", i, got, s.want)
		}
	}
}

func TestSwingTracker(t *testing.T) {
	var s swingTracker
	if s.onLow(100, 20) {
		t.Fatal("first low cannot diverge")
	}
	if s.onLow(95, 15) {
		t.Fatal("lower low with lower oscillator is confirmation")
	}
	if !s.onLow(90, 25) {
		t.Fatal("lower low with higher oscillator is a bullish divergence")
	}
	s.onHigh(110, 80)
	if !s.onHigh(115, 70) {
		t.Fatal("higher high with lower oscillator is a bearish divergence")
	}
}
