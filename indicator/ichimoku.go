package indicator

import (
	"math"

	"github.com/evdnx/stratbook/types"
)

// Ichimoku computes the five Ichimoku Kinko Hyo lines. The senkou spans are
// projected kijun periods forward, so the cloud in effect at the current bar
// is the pair of spans computed kijun bars ago.
type Ichimoku struct {
	tenkanHigh, tenkanLow *Window
	kijunHigh, kijunLow   *Window
	senkouHigh, senkouLow *Window

	// spans computed on previous bars, oldest first
	spanA, spanB *Window

	tenkan, kijun float64
	chikou        float64
}

func NewIchimoku(tenkan, kijun, senkouB int) *Ichimoku {
	return &Ichimoku{
		tenkanHigh: NewWindow(tenkan),
		tenkanLow:  NewWindow(tenkan),
		kijunHigh:  NewWindow(kijun),
		kijunLow:   NewWindow(kijun),
		senkouHigh: NewWindow(senkouB),
		senkouLow:  NewWindow(senkouB),
		spanA:      NewWindow(kijun + 1),
		spanB:      NewWindow(kijun + 1),
	}
}

func (i *Ichimoku) Process(c types.Candle) {
	i.tenkanHigh.Push(c.High)
	i.tenkanLow.Push(c.Low)
	i.kijunHigh.Push(c.High)
	i.kijunLow.Push(c.Low)
	i.senkouHigh.Push(c.High)
	i.senkouLow.Push(c.Low)

	i.tenkan = (i.tenkanHigh.Max() + i.tenkanLow.Min()) / 2
	i.kijun = (i.kijunHigh.Max() + i.kijunLow.Min()) / 2
	i.chikou = c.Close

	if i.senkouHigh.Full() {
		i.spanA.Push((i.tenkan + i.kijun) / 2)
		i.spanB.Push((i.senkouHigh.Max() + i.senkouLow.Min()) / 2)
	}
}

func (i *Ichimoku) Tenkan() float64 { return i.tenkan }
func (i *Ichimoku) Kijun() float64  { return i.kijun }
func (i *Ichimoku) Chikou() float64 { return i.chikou }

// SenkouA and SenkouB return the spans in effect for the current bar, or 0
// until the displaced cloud is available.
func (i *Ichimoku) SenkouA() float64 { return i.displaced(i.spanA) }
func (i *Ichimoku) SenkouB() float64 { return i.displaced(i.spanB) }

func (i *Ichimoku) displaced(span *Window) float64 {
	if !span.Full() {
		return 0
	}
	return span.At(0)
}

func (i *Ichimoku) CloudTop() float64    { return math.Max(i.SenkouA(), i.SenkouB()) }
func (i *Ichimoku) CloudBottom() float64 { return math.Min(i.SenkouA(), i.SenkouB()) }

// Ready is true once the displaced cloud is available.
func (i *Ichimoku) Ready() bool { return i.spanA.Full() }

func (i *Ichimoku) Reset() {
	for _, w := range []*Window{
		i.tenkanHigh, i.tenkanLow, i.kijunHigh, i.kijunLow,
		i.senkouHigh, i.senkouLow, i.spanA, i.spanB,
	} {
		w.Reset()
	}
	i.tenkan, i.kijun, i.chikou = 0, 0, 0
}
