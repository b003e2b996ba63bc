package strategy

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/evdnx/stratbook/config"
	"github.com/evdnx/stratbook/executor"
	"github.com/evdnx/stratbook/logger"
	"github.com/evdnx/stratbook/metrics"
	"github.com/evdnx/stratbook/risk"
	"github.com/evdnx/stratbook/types"
	"github.com/google/uuid"
)

const defaultHistory = 256

// BaseStrategy bundles the common dependencies and order helpers. Concrete
// strategies embed it and only add their parameters, indicators and
// ProcessCandle.
type BaseStrategy struct {
	Exec   executor.Executor
	Log    logger.Logger
	Cfg    config.StrategyConfig
	Symbol string
	Params ParamSet

	name       string
	securities []string
	timeframe  *Param[time.Duration]
	prices     *priceBuffer
	marks      map[string]float64
	now        time.Time
	protection *Protection

	mu        sync.Mutex
	own       map[string]struct{} // submitted and not yet filled
	limits    map[string]struct{} // resting limit orders
	listeners []func(types.Trade)
}

// NewBaseStrategy validates the config and declares the CandleTimeframe
// parameter. All concrete strategies call this from their constructors.
func NewBaseStrategy(name string, d Deps, tf time.Duration) (*BaseStrategy, error) {
	if err := d.Cfg.Validate(); err != nil {
		return nil, err
	}
	if d.Exec == nil {
		return nil, ErrNoExecutor
	}
	log := d.Log
	if log == nil {
		log = logger.NewNop()
	}
	b := &BaseStrategy{
		Exec:       d.Exec,
		Log:        logger.With(log, logger.String("strategy", name), logger.String("symbol", d.Symbol)),
		Cfg:        d.Cfg,
		Symbol:     d.Symbol,
		name:       name,
		securities: append([]string(nil), d.Securities...),
		prices:     newPriceBuffer(defaultHistory),
		marks:      make(map[string]float64),
		own:        make(map[string]struct{}),
		limits:     make(map[string]struct{}),
	}
	b.timeframe = NewParam(&b.Params, "CandleTimeframe", tf, Positive[time.Duration]()).
		Describe("timeframe of the working candles")
	return b, nil
}

func (b *BaseStrategy) Name() string             { return b.name }
func (b *BaseStrategy) Base() *BaseStrategy      { return b }
func (b *BaseStrategy) Timeframe() time.Duration { return b.timeframe.Get() }
func (b *BaseStrategy) Securities() []string     { return b.securities }
func (b *BaseStrategy) Now() time.Time           { return b.now }

// Subscriptions defaults to the working symbol on CandleTimeframe.
func (b *BaseStrategy) Subscriptions() []types.Subscription {
	return []types.Subscription{{Symbol: b.Symbol, Timeframe: b.Timeframe()}}
}

func (b *BaseStrategy) OnStarted() error { return nil }
func (b *BaseStrategy) OnReseted()       {}

// OnOwnTrade registers fn for fills of orders this strategy submitted.
func (b *BaseStrategy) OnOwnTrade(fn func(types.Trade)) {
	b.mu.Lock()
	b.listeners = append(b.listeners, fn)
	b.mu.Unlock()
}

// StartProtection arms stop-loss / take-profit handling for the working symbol.
func (b *BaseStrategy) StartProtection(cfg ProtectionConfig) {
	if !cfg.Enabled() {
		b.protection = nil
		return
	}
	b.protection = NewProtection(cfg)
}

func (b *BaseStrategy) Protection() *Protection { return b.protection }

func (b *BaseStrategy) Position() float64 { return b.PositionOf(b.Symbol) }

func (b *BaseStrategy) PositionOf(symbol string) float64 {
	qty, _ := b.Exec.Position(symbol)
	return qty
}

// PriceOf returns the last close or quote price seen for symbol.
func (b *BaseStrategy) PriceOf(symbol string) float64 { return b.marks[symbol] }

// Closes returns the last n working closes, oldest first, or nil until n are known.
func (b *BaseStrategy) Closes(n int) []float64 { return b.prices.Tail(n) }

// Volume is the order size for the working symbol.
func (b *BaseStrategy) Volume() float64 { return b.VolumeFor(b.Symbol) }

// VolumeFor is the order size for symbol: the configured fixed volume, or a
// risk based size at symbol's mark when Cfg.Volume is zero.
func (b *BaseStrategy) VolumeFor(symbol string) float64 {
	if b.Cfg.Volume > 0 {
		return risk.RoundQty(b.Cfg.Volume, b.Cfg)
	}
	return risk.CalcQty(b.Exec.Equity(), b.Cfg.MaxRiskPerTrade, b.Cfg.StopLossPct, b.PriceOf(symbol), b.Cfg)
}

func (b *BaseStrategy) BuyMarket(volume float64) error {
	return b.MarketOrder(b.Symbol, types.Buy, volume, "buy")
}

func (b *BaseStrategy) SellMarket(volume float64) error {
	return b.MarketOrder(b.Symbol, types.Sell, volume, "sell")
}

// MarketOrder sends a market order priced at the last known mark. A
// non-positive volume means VolumeFor(symbol).
func (b *BaseStrategy) MarketOrder(symbol string, side types.Side, volume float64, ctx string) error {
	if volume <= 0 {
		volume = b.VolumeFor(symbol)
	}
	qty := risk.RoundQty(volume, b.Cfg)
	if qty <= 0 {
		return nil
	}
	return b.submitOrder(types.Order{
		Symbol:  symbol,
		Side:    side,
		Type:    types.Market,
		Qty:     qty,
		Price:   b.marks[symbol],
		Comment: ctx,
	}, ctx)
}

// EnterLong buys Volume() plus whatever short is open. No-op when already long.
func (b *BaseStrategy) EnterLong(ctx string) error {
	pos := b.Position()
	if pos > 0 {
		return nil
	}
	return b.MarketOrder(b.Symbol, types.Buy, b.Volume()+math.Abs(pos), ctx)
}

// EnterShort sells Volume() plus whatever long is open. No-op when already short.
func (b *BaseStrategy) EnterShort(ctx string) error {
	pos := b.Position()
	if pos < 0 {
		return nil
	}
	return b.MarketOrder(b.Symbol, types.Sell, b.Volume()+math.Abs(pos), ctx)
}

func (b *BaseStrategy) ClosePosition(ctx string) error {
	return b.ClosePositionOf(b.Symbol, ctx)
}

// ClosePositionOf flattens symbol at its last mark.
func (b *BaseStrategy) ClosePositionOf(symbol, ctx string) error {
	return b.closeAt(symbol, b.marks[symbol], ctx)
}

func (b *BaseStrategy) closeAt(symbol string, price float64, ctx string) error {
	qty := b.PositionOf(symbol)
	if qty == 0 {
		return nil
	}
	side := types.Sell
	if qty < 0 {
		side = types.Buy
	}
	return b.submitOrder(types.Order{
		Symbol:  symbol,
		Side:    side,
		Type:    types.Market,
		Qty:     math.Abs(qty),
		Price:   price,
		Comment: ctx,
	}, ctx)
}

// BuyLimit rests a buy at price and returns the order id.
func (b *BaseStrategy) BuyLimit(price, volume float64) (string, error) {
	return b.limitOrder(types.Buy, price, volume)
}

func (b *BaseStrategy) SellLimit(price, volume float64) (string, error) {
	return b.limitOrder(types.Sell, price, volume)
}

func (b *BaseStrategy) limitOrder(side types.Side, price, volume float64) (string, error) {
	if volume <= 0 {
		volume = b.Volume()
	}
	qty := risk.RoundQty(volume, b.Cfg)
	if qty <= 0 {
		return "", nil
	}
	o := types.Order{
		ID:      uuid.NewString(),
		Symbol:  b.Symbol,
		Side:    side,
		Type:    types.Limit,
		Qty:     qty,
		Price:   price,
		Comment: "limit",
	}
	if err := b.submitOrder(o, "limit"); err != nil {
		return "", err
	}
	return o.ID, nil
}

func (b *BaseStrategy) CancelOrder(id string) error {
	if err := b.Exec.Cancel(id); err != nil {
		return err
	}
	b.mu.Lock()
	delete(b.own, id)
	delete(b.limits, id)
	b.mu.Unlock()
	return nil
}

// CancelAllOrders withdraws every resting limit order of this strategy.
func (b *BaseStrategy) CancelAllOrders() {
	b.mu.Lock()
	ids := make([]string, 0, len(b.limits))
	for id := range b.limits {
		ids = append(ids, id)
	}
	b.mu.Unlock()
	for _, id := range ids {
		if err := b.CancelOrder(id); err != nil && !errors.Is(err, executor.ErrUnknownOrder) {
			b.Log.Warn("order_cancel_failed", logger.String("id", id), logger.Err(err))
		}
	}
}

// ActiveOrders is the number of resting limit orders.
func (b *BaseStrategy) ActiveOrders() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.limits)
}

// submitOrder stamps the order, records metrics and logs.
func (b *BaseStrategy) submitOrder(o types.Order, ctx string) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Time.IsZero() {
		o.Time = b.now
	}
	o.Strategy = b.name

	b.mu.Lock()
	b.own[o.ID] = struct{}{}
	if o.Type == types.Limit {
		b.limits[o.ID] = struct{}{}
	}
	b.mu.Unlock()

	if err := b.Exec.Submit(o); err != nil {
		b.mu.Lock()
		delete(b.own, o.ID)
		delete(b.limits, o.ID)
		b.mu.Unlock()
		b.Log.Error("order_submit_failed",
			logger.String("symbol", o.Symbol),
			logger.String("side", string(o.Side)),
			logger.Float64("qty", o.Qty),
			logger.Err(err),
		)
		metrics.OrdersRejected.WithLabelValues(b.name).Inc()
		return err
	}
	b.Log.Info("order_submitted",
		logger.String("symbol", o.Symbol),
		logger.String("side", string(o.Side)),
		logger.String("type", string(o.Type)),
		logger.Float64("qty", o.Qty),
		logger.Float64("price", o.Price),
		logger.String("ctx", ctx),
	)
	metrics.OrdersSubmitted.WithLabelValues(b.name, string(o.Side)).Inc()
	metrics.Position.WithLabelValues(b.name, o.Symbol).Set(b.PositionOf(o.Symbol))
	return nil
}

// handleTrade forwards fills of own orders to the registered listeners.
func (b *BaseStrategy) handleTrade(tr types.Trade) {
	b.mu.Lock()
	if _, mine := b.own[tr.OrderID]; !mine {
		b.mu.Unlock()
		return
	}
	delete(b.own, tr.OrderID)
	delete(b.limits, tr.OrderID)
	listeners := append(([]func(types.Trade))(nil), b.listeners...)
	b.mu.Unlock()

	b.Log.Debug("own_trade",
		logger.String("order", tr.OrderID),
		logger.String("side", string(tr.Side)),
		logger.Float64("qty", tr.Qty),
		logger.Float64("price", tr.Price))
	for _, fn := range listeners {
		fn(tr)
	}
}

func (b *BaseStrategy) observe(c types.Candle) {
	b.marks[c.Symbol] = c.Close
	if t := c.CloseTime(); t.After(b.now) {
		b.now = t
	}
	if c.Symbol == b.Symbol && c.Timeframe == b.Timeframe() {
		b.prices.Add(c.Close)
	}
}

func (b *BaseStrategy) observeQuote(q types.Quote) {
	if px := q.Price(); px > 0 {
		b.marks[q.Symbol] = px
	}
	if q.Time.After(b.now) {
		b.now = q.Time
	}
}

// protect runs the armed exits against one bar of the working symbol.
func (b *BaseStrategy) protect(open, high, low float64) {
	if b.protection == nil {
		return
	}
	qty, avg := b.Exec.Position(b.Symbol)
	b.protection.Track(qty, avg)
	kind, price, hit := b.protection.Check(open, high, low)
	if !hit {
		return
	}
	b.Log.Warn("protection_triggered",
		logger.String("kind", kind),
		logger.Float64("price", price),
		logger.Float64("qty", qty))
	metrics.ProtectionTriggered.WithLabelValues(b.name, kind).Inc()
	if err := b.closeAt(b.Symbol, price, kind); err != nil {
		b.Log.Error("protection_close_failed", logger.Err(err))
	}
}

// reset drops resting orders and per-run caches.
func (b *BaseStrategy) reset() {
	b.CancelAllOrders()
	b.mu.Lock()
	b.own = make(map[string]struct{})
	b.limits = make(map[string]struct{})
	b.mu.Unlock()
	b.prices.Reset()
	b.marks = make(map[string]float64)
	b.now = time.Time{}
	if b.protection != nil {
		b.protection.reset()
	}
}
