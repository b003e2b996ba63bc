package indicator

// MESAStochastic is Ehlers' stochastic of the roofing-filtered price,
// smoothed by a SuperSmoother. Trigger is the value two bars earlier; a
// cross of Value over Trigger marks a turn in the cycle.
type MESAStochastic struct {
	roof     *Roofing
	filt     *Window
	smoother *SuperSmoother
	history  *Window
}

func NewMESAStochastic(length, highPass, lowPass int) *MESAStochastic {
	return &MESAStochastic{
		roof:     NewRoofing(highPass, lowPass),
		filt:     NewWindow(length),
		smoother: NewSuperSmoother(lowPass),
		history:  NewWindow(3),
	}
}

func (m *MESAStochastic) Process(price float64) float64 {
	f := m.roof.Process(price)
	m.filt.Push(f)
	hi, lo := m.filt.Max(), m.filt.Min()
	stoc := 0.5
	if hi > lo {
		stoc = (f - lo) / (hi - lo)
	}
	v := m.smoother.Process(stoc)
	m.history.Push(v)
	return v
}

func (m *MESAStochastic) Value() float64   { return m.history.Last(0) }
func (m *MESAStochastic) Trigger() float64 { return m.history.Last(2) }
func (m *MESAStochastic) Prev() float64    { return m.history.Last(1) }

// Ready once the stochastic window is full and the trigger exists.
func (m *MESAStochastic) Ready() bool {
	return m.filt.Full() && m.history.Full() && m.roof.Ready()
}

func (m *MESAStochastic) Reset() {
	m.roof.Reset()
	m.filt.Reset()
	m.smoother.Reset()
	m.history.Reset()
}
