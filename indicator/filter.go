package indicator

import "math"

// SuperSmoother is Ehlers' two-pole low-pass filter: a Butterworth-style
// IIR with almost no lag at the cutoff period.
type SuperSmoother struct {
	c1, c2, c3 float64
	x1         float64
	f1, f2     float64
	count      int
}

func NewSuperSmoother(period int) *SuperSmoother {
	if period < 2 {
		period = 2
	}
	a1 := math.Exp(-math.Sqrt2 * math.Pi / float64(period))
	b1 := 2 * a1 * math.Cos(math.Sqrt2*math.Pi/float64(period))
	c2 := b1
	c3 := -a1 * a1
	return &SuperSmoother{c1: 1 - c2 - c3, c2: c2, c3: c3}
}

func (s *SuperSmoother) Process(x float64) float64 {
	s.count++
	var f float64
	if s.count < 3 {
		f = x
	} else {
		f = s.c1*(x+s.x1)/2 + s.c2*s.f1 + s.c3*s.f2
	}
	s.x1 = x
	s.f2, s.f1 = s.f1, f
	return f
}

func (s *SuperSmoother) Value() float64 { return s.f1 }

// Prev returns the output one step before the current one.
func (s *SuperSmoother) Prev() float64 { return s.f2 }
func (s *SuperSmoother) Ready() bool   { return s.count >= 3 }

func (s *SuperSmoother) Reset() {
	s.x1, s.f1, s.f2, s.count = 0, 0, 0, 0
}

// Roofing is a two-pole high-pass followed by a SuperSmoother: it removes
// both the trend component and the high frequency noise.
type Roofing struct {
	alpha    float64
	x1, x2   float64
	hp1, hp2 float64
	count    int
	smoother *SuperSmoother
}

func NewRoofing(highPass, lowPass int) *Roofing {
	if highPass < 2 {
		highPass = 2
	}
	w := 0.707 * 2 * math.Pi / float64(highPass)
	return &Roofing{
		alpha:    (math.Cos(w) + math.Sin(w) - 1) / math.Cos(w),
		smoother: NewSuperSmoother(lowPass),
	}
}

func (r *Roofing) Process(x float64) float64 {
	r.count++
	var hp float64
	if r.count >= 3 {
		a := r.alpha
		hp = (1-a/2)*(1-a/2)*(x-2*r.x1+r.x2) + 2*(1-a)*r.hp1 - (1-a)*(1-a)*r.hp2
	}
	r.x2, r.x1 = r.x1, x
	r.hp2, r.hp1 = r.hp1, hp
	return r.smoother.Process(hp)
}

func (r *Roofing) Value() float64 { return r.smoother.Value() }
func (r *Roofing) Ready() bool    { return r.count >= 5 }

func (r *Roofing) Reset() {
	r.x1, r.x2, r.hp1, r.hp2, r.count = 0, 0, 0, 0, 0
	r.smoother.Reset()
}
