package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/evdnx/stratbook/config"
	"github.com/evdnx/stratbook/executor"
	"github.com/evdnx/stratbook/feed/ws"
	"github.com/evdnx/stratbook/journal"
	"github.com/evdnx/stratbook/logger"
	"github.com/evdnx/stratbook/marketdata"
	"github.com/evdnx/stratbook/metrics"
	"github.com/evdnx/stratbook/store/sqlite"
	"github.com/evdnx/stratbook/strategy"
	"github.com/evdnx/stratbook/types"
)

func runLive(app *config.AppConfig, log logger.Logger, args []string) error {
	fs := flag.NewFlagSet("live", flag.ExitOnError)
	var (
		name       = fs.String("strategy", "", "strategy key (see list)")
		symbol     = fs.String("symbol", "", "primary symbol")
		securities = fs.String("securities", "", "comma separated universe for multi-security strategies")
		params     = fs.String("params", "", "JSON parameter overrides or @file")
		persist    = fs.Bool("persist", false, "store finished candles in SQLite")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *symbol == "" {
		return errors.New("live: -strategy and -symbol are required")
	}
	pj, err := readParams(*params)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	exec := executor.NewPaperExecutor(app.StartEquity, log)
	s, err := strategy.New(*name, strategy.Deps{
		Symbol:     *symbol,
		Securities: splitList(*securities),
		Cfg:        app.StrategyConfig(),
		Exec:       exec,
		Log:        log,
	})
	if err != nil {
		return err
	}
	if err := s.Base().Params.ApplyJSON(pj); err != nil {
		return fmt.Errorf("params for %s: %w", *name, err)
	}
	host := strategy.NewHost(s)
	if err := host.Start(); err != nil {
		return err
	}
	defer host.Stop()

	if app.RedisAddr != "" {
		j, err := journal.NewRedisJournal(journal.RedisConfig{Addr: app.RedisAddr, Stream: app.RedisStream})
		if err != nil {
			return err
		}
		defer j.Close()
		journal.Attach(ctx, exec, j, log)
		log.Info("journal_enabled", logger.String("stream", app.RedisStream))
	}

	var candleCh chan types.Candle
	if *persist {
		w, err := sqlite.NewWriter(app.SQLitePath, log)
		if err != nil {
			return err
		}
		defer w.Close()
		candleCh = make(chan types.Candle, 256)
		done := make(chan struct{})
		go func() {
			w.Run(ctx, candleCh)
			close(done)
		}()
		defer func() {
			close(candleCh)
			<-done
		}()
	}

	srv := serveMetrics(app.MetricsAddr, log)
	defer func() {
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer scancel()
		srv.Shutdown(sctx)
	}()

	client, err := ws.New(ws.Config{URL: app.FeedURL}, log)
	if err != nil {
		return err
	}
	quotes := make(chan types.Quote, 1024)
	go client.Run(ctx, quotes)

	loop := newLiveLoop(host, exec, log)
	loop.persist = candleCh
	loop.run(ctx, quotes)
	return nil
}

func serveMetrics(addr string, log logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics_server_failed", logger.Err(err))
		}
	}()
	log.Info("metrics_listening", logger.String("addr", addr))
	return srv
}

// liveLoop turns quotes into working candles and feeds one host. It runs on a
// single goroutine.
type liveLoop struct {
	host       *strategy.Host
	exec       *executor.PaperExecutor
	log        logger.Logger
	agg        *marketdata.TickAggregator
	resamplers []*marketdata.Resampler
	persist    chan<- types.Candle
}

func newLiveLoop(host *strategy.Host, exec *executor.PaperExecutor, log logger.Logger) *liveLoop {
	base := host.Strategy().Base().Timeframe()
	l := &liveLoop{host: host, exec: exec, log: log, agg: marketdata.NewTickAggregator(base)}
	l.agg.OnDropped = func(q types.Quote) {
		log.Debug("late_quote_dropped", logger.String("symbol", q.Symbol), logger.Time("time", q.Time))
	}
	seen := map[time.Duration]bool{base: true}
	for _, sub := range host.Subscriptions() {
		if sub.Timeframe > base && !seen[sub.Timeframe] {
			seen[sub.Timeframe] = true
			l.resamplers = append(l.resamplers, marketdata.NewResampler(sub.Timeframe))
		}
	}
	return l
}

func (l *liveLoop) run(ctx context.Context, quotes <-chan types.Quote) {
	tick := time.NewTicker(time.Second)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case q := <-quotes:
			l.handle(q)
		case now := <-tick.C:
			for _, c := range l.agg.Expire(now) {
				l.deliver(c)
			}
		}
	}
}

func (l *liveLoop) handle(q types.Quote) {
	l.host.ProcessQuote(q)
	if c, ok := l.agg.Add(q); ok {
		l.deliver(c)
	}
}

func (l *liveLoop) deliver(c types.Candle) {
	for _, rs := range l.resamplers {
		for _, hc := range rs.Process(c) {
			l.host.ProcessCandle(hc)
		}
	}
	l.host.ProcessCandle(c)
	if l.persist != nil {
		select {
		case l.persist <- c:
		default:
			l.log.Warn("candle_persist_dropped", logger.String("symbol", c.Symbol))
		}
	}
	metrics.EquityGauge.Set(l.exec.Equity())
}
