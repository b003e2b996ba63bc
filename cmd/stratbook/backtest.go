package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/evdnx/stratbook/backtest"
	"github.com/evdnx/stratbook/config"
	"github.com/evdnx/stratbook/logger"
	"github.com/evdnx/stratbook/marketdata"
	"github.com/evdnx/stratbook/report"
	"github.com/evdnx/stratbook/store/postgres"
	"github.com/evdnx/stratbook/store/sqlite"
	"github.com/evdnx/stratbook/types"
)

func runBacktest(app *config.AppConfig, log logger.Logger, args []string) error {
	fs := flag.NewFlagSet("backtest", flag.ExitOnError)
	var (
		name       = fs.String("strategy", "", "strategy key (see list)")
		symbol     = fs.String("symbol", "", "primary symbol")
		securities = fs.String("securities", "", "comma separated universe for multi-security strategies")
		source     = fs.String("source", "csv", "csv, sqlite or postgres")
		csvPath    = fs.String("csv", "", "CSV file (source=csv, single symbol)")
		tf         = fs.Duration("tf", 5*time.Minute, "timeframe of the stored candles")
		from       = fs.String("from", "", "first day (YYYY-MM-DD or RFC3339)")
		to         = fs.String("to", "", "end day, exclusive")
		params     = fs.String("params", "", "JSON parameter overrides or @file")
		out        = fs.String("report", "", "write an HTML report to this path")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *symbol == "" {
		return errors.New("backtest: -strategy and -symbol are required")
	}
	pj, err := readParams(*params)
	if err != nil {
		return err
	}
	start, err := parseDay(*from)
	if err != nil {
		return err
	}
	end, err := parseDay(*to)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	src, closeSrc, err := openSource(ctx, app, *source, *csvPath, *symbol, *tf)
	if err != nil {
		return err
	}
	defer closeSrc()

	universe := splitList(*securities)
	symbols := append([]string{*symbol}, universe...)
	var candles []types.Candle
	seen := make(map[string]bool)
	for _, sym := range symbols {
		if seen[sym] {
			continue
		}
		seen[sym] = true
		cs, err := src.Candles(ctx, sym, *tf, start, end)
		if err != nil {
			return fmt.Errorf("load %s: %w", sym, err)
		}
		candles = append(candles, cs...)
	}

	res, err := backtest.Run(ctx, backtest.Config{
		Strategy:    *name,
		Symbol:      *symbol,
		Securities:  universe,
		Params:      pj,
		StartEquity: app.StartEquity,
		Sizing:      app.StrategyConfig(),
	}, candles, log)
	if err != nil && res == nil {
		return err
	}
	if err != nil {
		log.Warn("backtest_interrupted", logger.Err(err))
	}
	fmt.Println(res.Summary())

	if *out == "" {
		return nil
	}
	var primary []types.Candle
	for _, c := range candles {
		if c.Symbol == *symbol {
			primary = append(primary, c)
		}
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := report.WriteHTML(f, primary, res.Trades, res.Equity, report.Options{Title: *name + " " + *symbol}); err != nil {
		return err
	}
	log.Info("report_written", logger.String("path", *out))
	return nil
}

func openSource(ctx context.Context, app *config.AppConfig, kind, csvPath, symbol string, tf time.Duration) (marketdata.Source, func(), error) {
	switch kind {
	case "csv":
		if csvPath == "" {
			return nil, nil, errors.New("backtest: -csv is required for source=csv")
		}
		f, err := os.Open(csvPath)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		candles, err := marketdata.LoadCSV(f, symbol, tf)
		if err != nil {
			return nil, nil, err
		}
		return marketdata.NewSliceSource(candles), func() {}, nil
	case "sqlite":
		r, err := sqlite.NewReader(app.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return r, func() { r.Close() }, nil
	case "postgres":
		if app.PostgresDSN == "" {
			return nil, nil, errors.New("backtest: STRATBOOK_POSTGRES_DSN is not set")
		}
		r, err := postgres.Connect(ctx, app.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil
	}
	return nil, nil, fmt.Errorf("backtest: unknown source %q", kind)
}
