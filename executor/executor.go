package executor

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/evdnx/stratbook/logger"
	"github.com/evdnx/stratbook/types"
	"github.com/google/uuid"
)

var (
	ErrInsufficientCash = errors.New("paper executor: insufficient cash")
	ErrUnknownOrder     = errors.New("paper executor: unknown order")
	ErrNoPrice          = errors.New("paper executor: no price for market order")
)

// positions smaller than this are treated as flat
const dustQty = 1e-9

type Executor interface {
	Submit(o types.Order) error
	Cancel(id string) error
	// For back‑testing we expose the portfolio state
	Equity() float64
	Position(symbol string) (qty float64, avgPrice float64)
}

// OrderLister is implemented by executors that keep resting orders.
type OrderLister interface {
	PendingOrders(symbol string) []types.Order
}

// PaperExecutor is a simulated connector: market orders fill immediately at
// Order.Price, limit orders rest until a candle or quote trades through them.
type PaperExecutor struct {
	mu        sync.RWMutex
	cash      float64
	positions map[string]float64 // qty (positive = long, negative = short)
	avgPrice  map[string]float64
	marks     map[string]float64
	realized  float64
	pending   []types.Order
	fills     []types.Trade
	listeners []func(types.Trade)
	log       logger.Logger
}

func NewPaperExecutor(startEquity float64, log logger.Logger) *PaperExecutor {
	if log == nil {
		log = logger.NewNop()
	}
	return &PaperExecutor{
		cash:      startEquity,
		positions: make(map[string]float64),
		avgPrice:  make(map[string]float64),
		marks:     make(map[string]float64),
		log:       log,
	}
}

// OnFill registers fn to be called after every fill. Listeners run on the
// goroutine that caused the fill, outside the executor lock.
func (p *PaperExecutor) OnFill(fn func(types.Trade)) {
	p.mu.Lock()
	p.listeners = append(p.listeners, fn)
	p.mu.Unlock()
}

func (p *PaperExecutor) Submit(o types.Order) error {
	if o.Qty == 0 {
		return nil
	}
	if o.Qty < 0 {
		return fmt.Errorf("paper executor: negative qty %f", o.Qty)
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Type == "" {
		o.Type = types.Market
	}

	p.mu.Lock()
	if o.Type == types.Limit {
		if o.Price <= 0 {
			p.mu.Unlock()
			return fmt.Errorf("paper executor: limit order %s without price", o.ID)
		}
		p.pending = append(p.pending, o)
		p.mu.Unlock()
		p.log.Debug("limit_order_resting",
			logger.String("id", o.ID),
			logger.String("side", string(o.Side)),
			logger.Float64("price", o.Price))
		return nil
	}
	price := o.Price
	if price <= 0 {
		price = p.marks[o.Symbol]
	}
	if price <= 0 {
		p.mu.Unlock()
		return ErrNoPrice
	}
	tr, err := p.fillLocked(o, price)
	listeners := p.listeners
	p.mu.Unlock()
	if err != nil {
		return err
	}
	p.notify(listeners, tr)
	return nil
}

// fillLocked books a fill; the caller holds p.mu.
func (p *PaperExecutor) fillLocked(o types.Order, price float64) (types.Trade, error) {
	signed := o.Side.Sign() * o.Qty
	cost := price * o.Qty
	if o.Side == types.Buy && cost > p.cash {
		return types.Trade{}, ErrInsufficientCash
	}

	pos := p.positions[o.Symbol]
	avg := p.avgPrice[o.Symbol]
	newPos := pos + signed
	switch {
	case pos == 0 || math.Signbit(pos) == math.Signbit(signed):
		// opening or adding: volume weighted average price
		avg = (math.Abs(pos)*avg + o.Qty*price) / math.Abs(newPos)
	default:
		closing := math.Min(math.Abs(pos), o.Qty)
		p.realized += closing * (price - avg) * math.Copysign(1, pos)
		if o.Qty > math.Abs(pos) {
			avg = price // flipped through zero
		}
	}
	if math.Abs(newPos) < dustQty {
		newPos, avg = 0, 0
	}
	p.positions[o.Symbol] = newPos
	p.avgPrice[o.Symbol] = avg
	p.cash -= signed * price
	p.marks[o.Symbol] = price

	tr := types.Trade{
		OrderID:  o.ID,
		Symbol:   o.Symbol,
		Side:     o.Side,
		Qty:      o.Qty,
		Price:    price,
		Time:     o.Time,
		Strategy: o.Strategy,
		Comment:  o.Comment,
	}
	p.fills = append(p.fills, tr)
	return tr, nil
}

func (p *PaperExecutor) notify(listeners []func(types.Trade), trades ...types.Trade) {
	for _, tr := range trades {
		p.log.Info("order_filled",
			logger.String("symbol", tr.Symbol),
			logger.String("side", string(tr.Side)),
			logger.Float64("qty", tr.Qty),
			logger.Float64("price", tr.Price))
		for _, fn := range listeners {
			fn(tr)
		}
	}
}

func (p *PaperExecutor) Cancel(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, o := range p.pending {
		if o.ID == id {
			p.pending = append(p.pending[:i], p.pending[i+1:]...)
			return nil
		}
	}
	return ErrUnknownOrder
}

// OnCandle marks the symbol to the candle close and fills resting limit
// orders whose price was traded through. A buy limit fills when the low
// reaches it, a sell limit when the high does; a gap through the limit
// fills at the open.
func (p *PaperExecutor) OnCandle(c types.Candle) {
	p.match(c.Symbol, c.Open, c.High, c.Low, c.Close)
}

// OnQuote marks the symbol and matches resting orders against the quote price.
func (p *PaperExecutor) OnQuote(q types.Quote) {
	px := q.Price()
	if px <= 0 {
		return
	}
	p.match(q.Symbol, px, px, px, px)
}

func (p *PaperExecutor) match(symbol string, open, high, low, last float64) {
	p.mu.Lock()
	var filled []types.Trade
	kept := p.pending[:0]
	for _, o := range p.pending {
		if o.Symbol != symbol {
			kept = append(kept, o)
			continue
		}
		price, hit := 0.0, false
		switch o.Side {
		case types.Buy:
			if low <= o.Price {
				price, hit = math.Min(o.Price, open), true
			}
		case types.Sell:
			if high >= o.Price {
				price, hit = math.Max(o.Price, open), true
			}
		}
		if !hit {
			kept = append(kept, o)
			continue
		}
		tr, err := p.fillLocked(o, price)
		if err != nil {
			p.log.Warn("limit_fill_rejected", logger.String("id", o.ID), logger.Err(err))
			continue
		}
		filled = append(filled, tr)
	}
	p.pending = kept
	if last > 0 {
		p.marks[symbol] = last
	}
	listeners := p.listeners
	p.mu.Unlock()
	p.notify(listeners, filled...)
}

// Equity is cash plus open positions marked to the last known price.
func (p *PaperExecutor) Equity() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	eq := p.cash
	for sym, qty := range p.positions {
		mark := p.marks[sym]
		if mark == 0 {
			mark = p.avgPrice[sym]
		}
		eq += qty * mark
	}
	return eq
}

func (p *PaperExecutor) Cash() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cash
}

// Realized returns the profit booked by closing trades so far.
func (p *PaperExecutor) Realized() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.realized
}

func (p *PaperExecutor) Position(sym string) (float64, float64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.positions[sym], p.avgPrice[sym]
}

func (p *PaperExecutor) PendingOrders(symbol string) []types.Order {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []types.Order
	for _, o := range p.pending {
		if symbol == "" || o.Symbol == symbol {
			out = append(out, o)
		}
	}
	return out
}

// Fills returns a copy of every fill booked so far.
func (p *PaperExecutor) Fills() []types.Trade {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]types.Trade, len(p.fills))
	copy(out, p.fills)
	return out
}
