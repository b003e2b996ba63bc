package types

import (
	"math"
	"time"
)

type CandleState int

const (
	CandleActive CandleState = iota
	CandleFinished
)

func (s CandleState) String() string {
	if s == CandleFinished {
		return "finished"
	}
	return "active"
}

// Candle is an OHLCV aggregate over [OpenTime, OpenTime+Timeframe).
type Candle struct {
	Symbol    string        `json:"symbol"`
	Timeframe time.Duration `json:"timeframe"`
	OpenTime  time.Time     `json:"open_time"`
	Open      float64       `json:"open"`
	High      float64       `json:"high"`
	Low       float64       `json:"low"`
	Close     float64       `json:"close"`
	Volume    float64       `json:"volume"`
	State     CandleState   `json:"state"`
}

func (c Candle) CloseTime() time.Time { return c.OpenTime.Add(c.Timeframe) }
func (c Candle) Finished() bool       { return c.State == CandleFinished }
func (c Candle) Range() float64       { return c.High - c.Low }
func (c Candle) Body() float64        { return math.Abs(c.Close - c.Open) }
func (c Candle) IsBullish() bool      { return c.Close > c.Open }
func (c Candle) IsBearish() bool      { return c.Close < c.Open }
func (c Candle) Typical() float64     { return (c.High + c.Low + c.Close) / 3 }
func (c Candle) Median() float64      { return (c.High + c.Low) / 2 }

// Quote is a level-1 market data update.
type Quote struct {
	Symbol string    `json:"symbol"`
	Time   time.Time `json:"time"`
	Bid    float64   `json:"bid"`
	Ask    float64   `json:"ask"`
	Last   float64   `json:"last"`
	Volume float64   `json:"volume"`
}

// Mid falls back to Last when one side of the book is missing.
func (q Quote) Mid() float64 {
	if q.Bid <= 0 || q.Ask <= 0 {
		return q.Last
	}
	return (q.Bid + q.Ask) / 2
}

func (q Quote) Spread() float64 {
	if q.Bid <= 0 || q.Ask <= 0 {
		return 0
	}
	return q.Ask - q.Bid
}

// Price is the best single price for the quote: Last, else Mid.
func (q Quote) Price() float64 {
	if q.Last > 0 {
		return q.Last
	}
	return q.Mid()
}

// Subscription names one candle stream a strategy consumes.
type Subscription struct {
	Symbol    string
	Timeframe time.Duration
}

func (s Subscription) Matches(c Candle) bool {
	return s.Symbol == c.Symbol && s.Timeframe == c.Timeframe
}
