package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/evdnx/stratbook/config"
	"github.com/evdnx/stratbook/executor"
	"github.com/evdnx/stratbook/logger"
	"github.com/evdnx/stratbook/strategy"
)

func runList(app *config.AppConfig, log logger.Logger, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	verbose := fs.Bool("v", false, "show parameters")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer tw.Flush()
	for _, name := range strategy.Names() {
		s, err := strategy.New(name, strategy.Deps{
			Symbol:     "SYMBOL",
			Securities: []string{"A", "B"},
			Cfg:        app.StrategyConfig(),
			Exec:       executor.NewPaperExecutor(0, nil),
			Log:        logger.NewNop(),
		})
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		fmt.Fprintf(tw, "%s\t%s\n", name, s.Base().Timeframe())
		if !*verbose {
			continue
		}
		for _, p := range s.Base().Params.List() {
			opt := ""
			if p.CanOptimize {
				opt = "optimizable"
			}
			fmt.Fprintf(tw, "  %s\t%v\t%s\t%s\n", p.Name, p.Default, opt, p.Description)
		}
	}
	return nil
}
