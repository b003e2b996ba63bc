package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/evdnx/stratbook/config"
	"github.com/evdnx/stratbook/logger"
	"github.com/evdnx/stratbook/marketdata"
	"github.com/evdnx/stratbook/store/sqlite"
)

func runImport(app *config.AppConfig, log logger.Logger, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	var (
		csvPath = fs.String("csv", "", "CSV file with time,open,high,low,close,volume rows")
		symbol  = fs.String("symbol", "", "symbol of the rows")
		tf      = fs.Duration("tf", 5*time.Minute, "timeframe of the rows")
		db      = fs.String("db", app.SQLitePath, "SQLite file")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *csvPath == "" || *symbol == "" {
		return errors.New("import: -csv and -symbol are required")
	}
	f, err := os.Open(*csvPath)
	if err != nil {
		return err
	}
	defer f.Close()
	candles, err := marketdata.LoadCSV(f, *symbol, *tf)
	if err != nil {
		return err
	}

	w, err := sqlite.NewWriter(*db, log)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.SaveCandles(context.Background(), candles); err != nil {
		return err
	}
	log.Info("import_done",
		logger.String("symbol", *symbol),
		logger.Int("candles", len(candles)),
		logger.String("db", *db))
	return nil
}
