package indicator

import "github.com/evdnx/stratbook/types"

// Highest tracks the maximum of the last period values.
type Highest struct{ win *Window }

func NewHighest(period int) *Highest { return &Highest{win: NewWindow(period)} }

func (h *Highest) Process(v float64) float64 {
	h.win.Push(v)
	return h.win.Max()
}

func (h *Highest) Value() float64 { return h.win.Max() }
func (h *Highest) Ready() bool    { return h.win.Full() }
func (h *Highest) Reset()         { h.win.Reset() }

// Lowest tracks the minimum of the last period values.
type Lowest struct{ win *Window }

func NewLowest(period int) *Lowest { return &Lowest{win: NewWindow(period)} }

func (l *Lowest) Process(v float64) float64 {
	l.win.Push(v)
	return l.win.Min()
}

func (l *Lowest) Value() float64 { return l.win.Min() }
func (l *Lowest) Ready() bool    { return l.win.Full() }
func (l *Lowest) Reset()         { l.win.Reset() }

// Donchian is the highest high / lowest low channel.
type Donchian struct {
	upper *Highest
	lower *Lowest
}

func NewDonchian(period int) *Donchian {
	return &Donchian{upper: NewHighest(period), lower: NewLowest(period)}
}

func (d *Donchian) Process(c types.Candle) (upper, lower float64) {
	return d.upper.Process(c.High), d.lower.Process(c.Low)
}

func (d *Donchian) Upper() float64  { return d.upper.Value() }
func (d *Donchian) Lower() float64  { return d.lower.Value() }
func (d *Donchian) Middle() float64 { return (d.Upper() + d.Lower()) / 2 }
func (d *Donchian) Ready() bool     { return d.upper.Ready() }

func (d *Donchian) Reset() {
	d.upper.Reset()
	d.lower.Reset()
}
