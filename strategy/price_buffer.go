package strategy

import "math"

// priceBuffer keeps a rolling window of recent closes and exposes cheap
// statistics (trend direction, slope, swing size) for strategies that need a
// price read without indicator warm-up.
type priceBuffer struct {
	max int
	buf []float64
}

func newPriceBuffer(max int) *priceBuffer {
	if max <= 0 {
		max = 16
	}
	return &priceBuffer{max: max}
}

func (p *priceBuffer) Add(v float64) {
	p.buf = append(p.buf, v)
	if len(p.buf) > 2*p.max {
		p.buf = append(p.buf[:0], p.buf[len(p.buf)-p.max:]...)
	}
}

// Tail returns the last n closes, oldest first, or nil when fewer are known.
func (p *priceBuffer) Tail(n int) []float64 {
	if n <= 0 || n > len(p.buf) || n > p.max {
		return nil
	}
	out := make([]float64, n)
	copy(out, p.buf[len(p.buf)-n:])
	return out
}

func (p *priceBuffer) Len() int {
	if len(p.buf) > p.max {
		return p.max
	}
	return len(p.buf)
}

func (p *priceBuffer) Last() float64 {
	if len(p.buf) == 0 {
		return 0
	}
	return p.buf[len(p.buf)-1]
}

func (p *priceBuffer) Reset() { p.buf = p.buf[:0] }

// Trend scores the direction of the last six moves: +1 when ups dominate,
// -1 when downs do, 0 otherwise.
func (p *priceBuffer) Trend() int {
	vals := p.Tail(min(7, p.Len()))
	if len(vals) < 2 {
		return 0
	}
	score := 0
	for i := 1; i < len(vals); i++ {
		switch {
		case vals[i] > vals[i-1]:
			score++
		case vals[i] < vals[i-1]:
			score--
		}
	}
	threshold := max((len(vals)-1)/3, 2)
	switch {
	case score >= threshold:
		return 1
	case score <= -threshold:
		return -1
	}
	return 0
}

// Slope is the least squares slope of the last nine closes per bar.
func (p *priceBuffer) Slope() float64 {
	vals := p.Tail(min(9, p.Len()))
	n := float64(len(vals))
	if n < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range vals {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	den := n*sumXX - sumX*sumX
	if den == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / den
}

// Swing is the mean absolute close-to-close move over the last eight bars.
func (p *priceBuffer) Swing() float64 {
	vals := p.Tail(min(9, p.Len()))
	if len(vals) < 2 {
		return 0
	}
	sum := 0.0
	for i := 1; i < len(vals); i++ {
		sum += math.Abs(vals[i] - vals[i-1])
	}
	return sum / float64(len(vals)-1)
}
