// Command stratbook lists, backtests and paper-trades the strategy catalog.
//
//	stratbook list
//	stratbook backtest -strategy sma_crossover -symbol BTCUSD -csv btc_5m.csv -report out.html
//	stratbook import -csv btc_5m.csv -symbol BTCUSD -tf 5m
//	stratbook live -strategy rsi_reversal -symbol BTCUSD
//
// Process settings come from STRATBOOK_* environment variables (and .env).
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/evdnx/stratbook/config"
	"github.com/evdnx/stratbook/logger"
)

type command struct {
	name string
	help string
	run  func(app *config.AppConfig, log logger.Logger, args []string) error
}

var commands = []command{
	{"list", "list strategies and their parameters", runList},
	{"backtest", "replay history through a strategy", runBacktest},
	{"import", "load a CSV file into the SQLite store", runImport},
	{"live", "paper-trade a strategy on the websocket feed", runLive},
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: stratbook <command> [flags]")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-9s %s\n", c.name, c.help)
	}
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	app, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, err := logger.NewZapLogger(app.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}

	name := os.Args[1]
	for _, c := range commands {
		if c.name != name {
			continue
		}
		if err := c.run(app, log, os.Args[2:]); err != nil {
			log.Error("command_failed", logger.String("command", name), logger.Err(err))
			os.Exit(1)
		}
		return
	}
	usage()
	os.Exit(2)
}

// readParams accepts inline JSON or @path.
func readParams(v string) ([]byte, error) {
	if strings.HasPrefix(v, "@") {
		return os.ReadFile(strings.TrimPrefix(v, "@"))
	}
	return []byte(v), nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseDay(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, v)
}
