package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"betahedge/internal/engine"
	"betahedge/internal/render"
	"betahedge/internal/repository"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type simulateCmd struct {
	src        sourceFlags
	configFile string
	params     engine.SimulationConfig
	riskFree   float64
	outDir     string
	name       string
	chart      string
	archive    bool
	progress   bool
}

func (*simulateCmd) Name() string     { return "simulate" }
func (*simulateCmd) Synopsis() string { return "run the beta momentum strategy over close prices" }
func (*simulateCmd) Usage() string {
	return `betahedge simulate [-source csv|sqlite|postgres] [-tickers A,B] [-benchmark SPY] [-config file.json] [-out dir]

  Simulates a long/short portfolio that goes long negative-beta assets with
  positive momentum and short positive-beta assets with negative momentum,
  then prints a performance summary.
`
}

func (c *simulateCmd) SetFlags(f *flag.FlagSet) {
	c.src.register(f)
	def := engine.DefaultSimulationConfig()
	f.StringVar(&c.configFile, "config", "", "JSON file with simulation parameters; flags override it")
	f.IntVar(&c.params.Window, "window", def.Window, "Rolling beta window in days")
	f.IntVar(&c.params.MomentumWindow, "momentum-window", def.MomentumWindow, "Momentum window in days")
	f.Float64Var(&c.params.MomentumThreshold, "threshold", def.MomentumThreshold, "Momentum threshold")
	f.Float64Var(&c.params.Slippage, "slippage", def.Slippage, "Slippage charged every day, as a fraction of value")
	f.Float64Var(&c.params.TransactionCost, "cost", def.TransactionCost, "Transaction cost on rebalancing days, as a fraction of value")
	f.IntVar(&c.params.RebalancingInterval, "interval", def.RebalancingInterval, "Rebalance every n days")
	f.Float64Var(&c.params.InitialCapital, "capital", def.InitialCapital, "Initial capital")
	f.Float64Var(&c.riskFree, "rf", 0, "Annual risk-free rate for the Sharpe ratio")
	f.StringVar(&c.outDir, "out", "", "Write the movements and transactions CSVs to this directory")
	f.StringVar(&c.name, "name", "portfolio", "Name of the run, used for file names and the archive")
	f.StringVar(&c.chart, "chart", "", "Write a PNG chart of the portfolio value to this file")
	f.BoolVar(&c.archive, "archive", false, "Save the run in the SQLite database given by -db")
	f.BoolVar(&c.progress, "progress", true, "Show a progress bar")
}

// config merges defaults, the -config file and explicitly set flags.
func (c *simulateCmd) config(f *flag.FlagSet) (engine.SimulationConfig, error) {
	if c.configFile == "" {
		return c.params, c.params.Validate()
	}
	cfg, err := engine.LoadSimulationConfig(c.configFile)
	if err != nil {
		return cfg, err
	}
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "window":
			cfg.Window = c.params.Window
		case "momentum-window":
			cfg.MomentumWindow = c.params.MomentumWindow
		case "threshold":
			cfg.MomentumThreshold = c.params.MomentumThreshold
		case "slippage":
			cfg.Slippage = c.params.Slippage
		case "cost":
			cfg.TransactionCost = c.params.TransactionCost
		case "interval":
			cfg.RebalancingInterval = c.params.RebalancingInterval
		case "capital":
			cfg.InitialCapital = c.params.InitialCapital
		}
	})
	return cfg, cfg.Validate()
}

func (c *simulateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := c.config(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	start, end, err := c.src.dateRange()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	store, tickers, closeStore, err := c.src.open(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening prices: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	reporting := engine.NewReportingConfig(decimal.NewFromFloat(c.riskFree), c.outDir != "", c.name, c.outDir)
	feed := engine.NewDataFeedConfig(tickers, c.src.benchmark, start, end)
	e := engine.NewEngine(feed, cfg, reporting, store).WithProgress(c.progress)

	if c.archive {
		archive, err := repository.OpenSQLite(c.src.dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening archive: %v\n", err)
			return subcommands.ExitFailure
		}
		defer archive.Close()
		e = e.WithArchive(archive)
	}

	res, err := e.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.progress {
		fmt.Println()
	}
	printMarkdown(render.SummaryMarkdown(res))

	if c.chart != "" {
		png, err := render.ValueChart(res)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering chart: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := os.MkdirAll(filepath.Dir(c.chart), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := os.WriteFile(c.chart, png, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing chart: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}
