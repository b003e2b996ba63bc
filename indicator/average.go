package indicator

import "github.com/evdnx/goti"

// SMA is a simple moving average over a rolling window. Until the window is
// full Value reports the mean of the samples seen so far.
type SMA struct {
	ma     *goti.MovingAverage
	period int
	count  int
}

func NewSMA(period int) *SMA {
	return &SMA{ma: newAverage(goti.SMAMovingAverage, period), period: max(period, 1)}
}

// Process feeds v and returns the current average. Non-finite samples are
// dropped.
func (s *SMA) Process(v float64) float64 {
	if s.ma.AddValue(v) == nil {
		s.count++
	}
	return s.Value()
}

func (s *SMA) Value() float64 {
	if v, err := s.ma.Calculate(); err == nil {
		return v
	}
	vals := s.ma.GetValues()
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func (s *SMA) Ready() bool { return s.count >= s.period }

func (s *SMA) Reset() {
	s.ma.Reset()
	s.count = 0
}

// EMA calculates Exponential Moving Average, seeded with the SMA of the
// first period values. During warm-up it reports the running mean.
type EMA struct {
	ma      *goti.MovingAverage
	period  int
	current float64
	count   int
	sum     float64
}

func NewEMA(period int) *EMA {
	return &EMA{ma: newAverage(goti.EMAMovingAverage, period), period: max(period, 1)}
}

func (e *EMA) Process(v float64) float64 {
	if e.ma.AddValue(v) != nil {
		return e.current
	}
	e.count++
	if v, err := e.ma.Calculate(); err == nil {
		e.current = v
		return e.current
	}
	e.sum += v
	e.current = e.sum / float64(e.count)
	return e.current
}

func (e *EMA) Value() float64 { return e.current }
func (e *EMA) Ready() bool    { return e.count >= e.period }

func (e *EMA) Reset() {
	e.ma.Reset()
	e.current = 0
	e.count = 0
	e.sum = 0
}

func newAverage(kind goti.MovingAverageType, period int) *goti.MovingAverage {
	ma, err := goti.NewMovingAverage(kind, max(period, 1))
	if err != nil {
		panic(err)
	}
	return ma
}
