// Package backtest replays candle history through one strategy on the paper
// executor.
package backtest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/evdnx/stratbook/config"
	"github.com/evdnx/stratbook/executor"
	"github.com/evdnx/stratbook/logger"
	"github.com/evdnx/stratbook/marketdata"
	"github.com/evdnx/stratbook/strategy"
	"github.com/evdnx/stratbook/types"
)

var ErrNoCandles = errors.New("backtest: no candles")

// Config describes one run.
type Config struct {
	Strategy    string
	Symbol      string
	Securities  []string
	Params      []byte // JSON object of parameter overrides, optional
	StartEquity float64
	Sizing      config.StrategyConfig
}

// Runner owns the executor and host of a single run.
type Runner struct {
	cfg  Config
	log  logger.Logger
	exec *executor.PaperExecutor
	host *strategy.Host
}

// NewRunner builds the strategy from the registry and applies Params.
func NewRunner(cfg Config, log logger.Logger) (*Runner, error) {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.StartEquity <= 0 {
		cfg.StartEquity = 100000
	}
	if cfg.Sizing == (config.StrategyConfig{}) {
		cfg.Sizing = config.Default()
	}
	exec := executor.NewPaperExecutor(cfg.StartEquity, log)
	s, err := strategy.New(cfg.Strategy, strategy.Deps{
		Symbol:     cfg.Symbol,
		Securities: cfg.Securities,
		Cfg:        cfg.Sizing,
		Exec:       exec,
		Log:        log,
	})
	if err != nil {
		return nil, err
	}
	if len(cfg.Params) > 0 {
		if err := s.Base().Params.ApplyJSON(cfg.Params); err != nil {
			return nil, fmt.Errorf("params for %s: %w", cfg.Strategy, err)
		}
	}
	return &Runner{cfg: cfg, log: log, exec: exec, host: strategy.NewHost(s)}, nil
}

func (r *Runner) Strategy() strategy.Strategy       { return r.host.Strategy() }
func (r *Runner) Executor() *executor.PaperExecutor { return r.exec }

// Run feeds candles in time order. Subscriptions coarser than the input
// timeframe of their symbol are built with a Resampler and delivered before
// the base candle that completes them. Resting orders fill on input candles
// only. A cancelled ctx stops the run between
// candles and returns the partial result together with ctx.Err().
func (r *Runner) Run(ctx context.Context, candles []types.Candle) (*Result, error) {
	if len(candles) == 0 {
		return nil, ErrNoCandles
	}
	if err := r.host.Start(); err != nil {
		return nil, err
	}
	defer r.host.Stop()

	sorted := append([]types.Candle(nil), candles...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].OpenTime.Before(sorted[j].OpenTime) })
	base := inputTimeframes(sorted)
	for sym, tf := range base {
		r.host.FillOn(sym, tf)
	}
	resamplers := r.resamplers(base)

	res := &Result{StartEquity: r.cfg.StartEquity}
	started := time.Now()
	var runErr error
	for _, c := range sorted {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		for _, rs := range resamplers {
			for _, hc := range rs.Process(c) {
				r.host.ProcessCandle(hc)
			}
		}
		if err := r.host.ProcessCandle(c); err != nil {
			return nil, err
		}
		res.Candles++
		res.addEquity(c.CloseTime(), r.exec.Equity())
	}

	res.finish(r.exec.Fills(), r.exec.Equity())
	r.log.Info("backtest_finished",
		logger.String("strategy", r.cfg.Strategy),
		logger.Int("candles", res.Candles),
		logger.Int("trades", len(res.Trades)),
		logger.Float64("net_pnl", res.NetPnL),
		logger.Duration("took", time.Since(started)))
	return res, runErr
}

// resamplers returns one resampler per subscribed timeframe that is coarser
// than the input of the same symbol.
// inputTimeframes is the finest timeframe per symbol in candles.
func inputTimeframes(candles []types.Candle) map[string]time.Duration {
	base := make(map[string]time.Duration)
	for _, c := range candles {
		if tf, ok := base[c.Symbol]; !ok || c.Timeframe < tf {
			base[c.Symbol] = c.Timeframe
		}
	}
	return base
}

func (r *Runner) resamplers(base map[string]time.Duration) []*marketdata.Resampler {
	seen := make(map[time.Duration]bool)
	var out []*marketdata.Resampler
	for _, sub := range r.host.Subscriptions() {
		tf, ok := base[sub.Symbol]
		if !ok || sub.Timeframe <= tf || seen[sub.Timeframe] {
			continue
		}
		seen[sub.Timeframe] = true
		out = append(out, marketdata.NewResampler(sub.Timeframe))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timeframe() < out[j].Timeframe() })
	return out
}

// Run is a convenience wrapper for NewRunner followed by Runner.Run.
func Run(ctx context.Context, cfg Config, candles []types.Candle, log logger.Logger) (*Result, error) {
	r, err := NewRunner(cfg, log)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, candles)
}
