// Package indicator holds the streaming calculators strategies update once
// per finished candle, plus a TA-Lib backed Series for the heavier ones.
package indicator

import "math"

// Window is a fixed-size queue of the most recent values. It never holds
// more than its configured size.
type Window struct {
	size int
	buf  []float64
	sum  float64
}

func NewWindow(size int) *Window {
	if size <= 0 {
		size = 1
	}
	return &Window{size: size, buf: make([]float64, 0, size)}
}

// Push appends v and returns the evicted value, if any.
func (w *Window) Push(v float64) (evicted float64, ok bool) {
	if len(w.buf) == w.size {
		evicted, ok = w.buf[0], true
		copy(w.buf, w.buf[1:])
		w.buf = w.buf[:len(w.buf)-1]
		w.sum -= evicted
	}
	w.buf = append(w.buf, v)
	w.sum += v
	return evicted, ok
}

func (w *Window) Size() int  { return w.size }
func (w *Window) Len() int   { return len(w.buf) }
func (w *Window) Full() bool { return len(w.buf) == w.size }
func (w *Window) Sum() float64 {
	return w.sum
}

func (w *Window) Mean() float64 {
	if len(w.buf) == 0 {
		return 0
	}
	return w.sum / float64(len(w.buf))
}

// At returns the i-th value, 0 being the oldest.
func (w *Window) At(i int) float64 { return w.buf[i] }

// Last returns the value pushed n pushes ago (Last(0) is the newest).
func (w *Window) Last(n int) float64 {
	if n < 0 || n >= len(w.buf) {
		return 0
	}
	return w.buf[len(w.buf)-1-n]
}

// Values returns a copy ordered oldest to newest.
func (w *Window) Values() []float64 {
	out := make([]float64, len(w.buf))
	copy(out, w.buf)
	return out
}

func (w *Window) Max() float64 {
	m := math.Inf(-1)
	for _, v := range w.buf {
		m = math.Max(m, v)
	}
	return m
}

func (w *Window) Min() float64 {
	m := math.Inf(1)
	for _, v := range w.buf {
		m = math.Min(m, v)
	}
	return m
}

func (w *Window) Reset() {
	w.buf = w.buf[:0]
	w.sum = 0
}

// CrossAbove reports a crossing of a over b between two consecutive samples.
func CrossAbove(prevA, prevB, a, b float64) bool {
	return prevA <= prevB && a > b
}

// CrossBelow reports a crossing of a under b between two consecutive samples.
func CrossBelow(prevA, prevB, a, b float64) bool {
	return prevA >= prevB && a < b
}
