package types

import "time"

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Opposite returns the side that flattens a position opened with s.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// Sign is +1 for Buy and -1 for Sell.
func (s Side) Sign() float64 {
	if s == Buy {
		return 1
	}
	return -1
}

type OrderType string

const (
	Market OrderType = "MARKET"
	Limit  OrderType = "LIMIT"
)

type Order struct {
	ID     string
	Symbol string
	Side   Side
	Type   OrderType
	Qty    float64
	Price  float64 // fill price for market orders, limit price otherwise
	Time   time.Time
	// meta
	Strategy string
	Comment  string
}

// Trade is a single fill of an order.
type Trade struct {
	OrderID  string    `json:"order_id"`
	Symbol   string    `json:"symbol"`
	Side     Side      `json:"side"`
	Qty      float64   `json:"qty"`
	Price    float64   `json:"price"`
	Time     time.Time `json:"time"`
	Strategy string    `json:"strategy,omitempty"`
	Comment  string    `json:"comment,omitempty"`
}

// SignedQty is positive for buys and negative for sells.
func (t Trade) SignedQty() float64 {
	return t.Side.Sign() * t.Qty
}
