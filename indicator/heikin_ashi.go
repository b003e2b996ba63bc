package indicator

import (
	"math"

	"github.com/evdnx/stratbook/types"
)

// HeikinAshi converts regular candles into smoothed Heikin-Ashi candles.
type HeikinAshi struct {
	prev   types.Candle
	primed bool
}

func (h *HeikinAshi) Process(c types.Candle) types.Candle {
	ha := c
	ha.Close = (c.Open + c.High + c.Low + c.Close) / 4
	if h.primed {
		ha.Open = (h.prev.Open + h.prev.Close) / 2
	} else {
		ha.Open = (c.Open + c.Close) / 2
	}
	ha.High = math.Max(c.High, math.Max(ha.Open, ha.Close))
	ha.Low = math.Min(c.Low, math.Min(ha.Open, ha.Close))
	h.prev, h.primed = ha, true
	return ha
}

func (h *HeikinAshi) Reset() {
	h.prev, h.primed = types.Candle{}, false
}
