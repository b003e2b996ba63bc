// Package strategy holds the strategy runtime (parameters, order helpers,
// protection, lifecycle host, registry) and the catalog of trading rules
// built on it. Each catalog file defines one rule and registers it by key.
package strategy

import (
	"github.com/evdnx/stratbook/config"
	"github.com/evdnx/stratbook/executor"
	"github.com/evdnx/stratbook/logger"
	"github.com/evdnx/stratbook/types"
)

// Strategy is the contract between a trading rule and its Host.
// Embedding *BaseStrategy provides everything except ProcessCandle.
type Strategy interface {
	Name() string
	Base() *BaseStrategy
	Subscriptions() []types.Subscription
	// OnStarted binds indicators from the current parameter values.
	OnStarted() error
	// OnReseted drops per-run state.
	OnReseted()
	ProcessCandle(c types.Candle)
}

// QuoteStrategy is implemented by rules driven by level-1 quotes.
type QuoteStrategy interface {
	Strategy
	ProcessQuote(q types.Quote)
}

// Deps carries what a constructor needs to build a strategy.
type Deps struct {
	Symbol     string
	Securities []string // multi-security rules only
	Cfg        config.StrategyConfig
	Exec       executor.Executor
	Log        logger.Logger
}

type fillNotifier interface {
	OnFill(fn func(types.Trade))
}

type candleFeeder interface {
	OnCandle(c types.Candle)
}

type quoteFeeder interface {
	OnQuote(q types.Quote)
}
