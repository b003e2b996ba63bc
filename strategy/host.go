package strategy

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/evdnx/stratbook/logger"
	"github.com/evdnx/stratbook/metrics"
	"github.com/evdnx/stratbook/types"
)

// Host drives one strategy: lifecycle, candle/quote delivery, protection and
// panic isolation. Callbacks are not safe for concurrent use; feed a Host
// from a single goroutine.
type Host struct {
	s       Strategy
	base    *BaseStrategy
	subs    []types.Subscription
	started bool
	// fill timeframe per symbol: the only candles the executor matches on
	fillTF map[string]time.Duration
	pinned map[string]bool
}

// NewHost wraps s and subscribes to the executor's fills when it reports them.
func NewHost(s Strategy) *Host {
	h := &Host{s: s, base: s.Base(), fillTF: make(map[string]time.Duration), pinned: make(map[string]bool)}
	if n, ok := h.base.Exec.(fillNotifier); ok {
		n.OnFill(h.base.handleTrade)
	}
	return h
}

func (h *Host) Strategy() Strategy { return h.s }
func (h *Host) Started() bool      { return h.started }

// Subscriptions is the set captured at Start.
func (h *Host) Subscriptions() []types.Subscription { return h.subs }

// Start validates parameters, resets state, binds the strategy and arms
// protection from config when the strategy did not arm its own.
func (h *Host) Start() error {
	if h.started {
		return nil
	}
	if err := h.base.Params.Validate(); err != nil {
		return fmt.Errorf("start %s: %w", h.s.Name(), err)
	}
	h.clear()
	if err := h.s.OnStarted(); err != nil {
		return fmt.Errorf("start %s: %w", h.s.Name(), err)
	}
	if h.base.protection == nil {
		if pc, ok := protectionFromConfig(h.base.Cfg); ok {
			h.base.StartProtection(pc)
		}
	}
	h.subs = h.s.Subscriptions()
	h.started = true
	h.base.Log.Info("strategy_started",
		logger.Int("subscriptions", len(h.subs)),
		logger.Any("params", h.base.Params.List()))
	return nil
}

// Stop withdraws resting orders; positions stay open.
func (h *Host) Stop() {
	if !h.started {
		return
	}
	h.started = false
	h.base.CancelAllOrders()
	h.base.Log.Info("strategy_stopped", logger.Float64("position", h.base.Position()))
}

// Reset clears base and strategy state so the next run behaves like a new one.
// A started host rebinds the strategy through OnStarted and stops when that
// fails.
func (h *Host) Reset() error {
	h.clear()
	if !h.started {
		return nil
	}
	if err := h.s.OnStarted(); err != nil {
		h.Stop()
		return fmt.Errorf("reset %s: %w", h.s.Name(), err)
	}
	return nil
}

func (h *Host) clear() {
	h.base.reset()
	h.s.OnReseted()
}

// FillOn pins the timeframe whose candles are matched against resting
// orders for symbol. Unpinned symbols use the finest timeframe seen so far.
func (h *Host) FillOn(symbol string, tf time.Duration) {
	h.fillTF[symbol] = tf
	h.pinned[symbol] = true
}

func (h *Host) fills(c types.Candle) bool {
	tf, ok := h.fillTF[c.Symbol]
	if !ok || (c.Timeframe < tf && !h.pinned[c.Symbol]) {
		h.fillTF[c.Symbol] = c.Timeframe
		return true
	}
	return c.Timeframe == tf
}

func (h *Host) subscribed(c types.Candle) bool {
	for _, sub := range h.subs {
		if sub.Matches(c) {
			return true
		}
	}
	return false
}

// ProcessCandle feeds the executor, runs protection and then the strategy.
// Active candles are ignored. Unsubscribed series only update marks, and
// only candles of the fill timeframe reach the executor.
func (h *Host) ProcessCandle(c types.Candle) error {
	if !h.started {
		return ErrNotStarted
	}
	if !c.Finished() {
		return nil
	}
	if f, ok := h.base.Exec.(candleFeeder); ok && h.fills(c) {
		f.OnCandle(c)
	}
	h.base.observe(c)
	if !h.subscribed(c) {
		return nil
	}
	if c.Symbol == h.base.Symbol && c.Timeframe == h.base.Timeframe() {
		h.base.protect(c.Open, c.High, c.Low)
	}
	metrics.CandlesProcessed.WithLabelValues(h.s.Name()).Inc()
	h.safely("candle", func() { h.s.ProcessCandle(c) })
	return nil
}

// ProcessQuote feeds the executor and protection, then quote driven strategies.
func (h *Host) ProcessQuote(q types.Quote) error {
	if !h.started {
		return ErrNotStarted
	}
	if f, ok := h.base.Exec.(quoteFeeder); ok {
		f.OnQuote(q)
	}
	h.base.observeQuote(q)
	if q.Symbol != h.base.Symbol {
		return nil
	}
	if px := q.Price(); px > 0 {
		h.base.protect(px, px, px)
	}
	if qs, ok := h.s.(QuoteStrategy); ok {
		h.safely("quote", func() { qs.ProcessQuote(q) })
	}
	return nil
}

// safely recovers a panicking callback so one bad bar cannot stop a runner.
func (h *Host) safely(kind string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			metrics.StrategyPanics.WithLabelValues(h.s.Name()).Inc()
			h.base.Log.Error("strategy_panic",
				logger.String("callback", kind),
				logger.Any("panic", r),
				logger.String("stack", string(debug.Stack())))
		}
	}()
	fn()
}
