package strategy

import (
	"math"
	"time"
)

const defaultTimeframe = 5 * time.Minute

// crossing remembers on which side of b the value a was last seen and
// reports each change of side once. Values within a relative 1e-9 of each
// other keep the previous side.
type crossing struct {
	side   int
	primed bool
}

// update returns +1 on an upward cross, -1 on a downward cross and 0 otherwise.
// The very first observation only sets the side.
func (c *crossing) update(a, b float64) int {
	eps := 1e-9 * math.Max(1, math.Abs(b))
	s := 0
	switch {
	case a > b+eps:
		s = 1
	case a < b-eps:
		s = -1
	}
	primed := c.primed
	c.primed = true
	if s == 0 || s == c.side {
		return 0
	}
	c.side = s
	if !primed {
		return 0
	}
	return s
}

func (c *crossing) reset() { c.side, c.primed = 0, false }

// zone tracks an oscillator against a lower and upper bound and reports the
// bar on which it leaves the lower (+1) or upper (-1) zone.
type zone struct {
	lower, upper float64
	prev         float64
	primed       bool
}

func (z *zone) update(v float64) int {
	prev, primed := z.prev, z.primed
	z.prev, z.primed = v, true
	if !primed {
		return 0
	}
	switch {
	case prev < z.lower && v >= z.lower:
		return 1
	case prev > z.upper && v <= z.upper:
		return -1
	}
	return 0
}

func (z *zone) reset() { z.prev, z.primed = 0, false }

// swingTracker compares successive price extremes with the oscillator reading
// taken at each of them.
type swingTracker struct {
	lowPrice, lowOsc   float64
	highPrice, highOsc float64
	hasLow, hasHigh    bool
}

// onLow records a new price low and reports a bullish divergence: a lower
// price low with a higher oscillator low.
func (s *swingTracker) onLow(price, osc float64) bool {
	bullish := s.hasLow && price < s.lowPrice && osc > s.lowOsc
	s.lowPrice, s.lowOsc, s.hasLow = price, osc, true
	return bullish
}

// onHigh is the mirror of onLow.
func (s *swingTracker) onHigh(price, osc float64) bool {
	bearish := s.hasHigh && price > s.highPrice && osc < s.highOsc
	s.highPrice, s.highOsc, s.hasHigh = price, osc, true
	return bearish
}

func (s *swingTracker) reset() { *s = swingTracker{} }
