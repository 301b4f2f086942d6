package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"betahedge/internal/engine"
	"betahedge/internal/render"

	"github.com/google/subcommands"
)

type betaCmd struct {
	src     sourceFlags
	capital float64
}

func (*betaCmd) Name() string     { return "beta" }
func (*betaCmd) Synopsis() string { return "display full-period betas and an inverse-beta allocation" }
func (*betaCmd) Usage() string {
	return `betahedge beta [-source csv|sqlite|postgres] [-tickers A,B] [-benchmark SPY] [-capital n]

  Fits every asset's beta against the benchmark over the whole period and
  splits the capital in proportion to 1/beta.
`
}

func (c *betaCmd) SetFlags(f *flag.FlagSet) {
	c.src.register(f)
	f.Float64Var(&c.capital, "capital", engine.DefaultSimulationConfig().InitialCapital, "Capital to allocate")
}

func (c *betaCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	feed := engine.NewDataFeedConfig(tickers, c.src.benchmark, start, end)
	prices, err := store.ClosePrices(ctx, feed.Tickers(), c.src.benchmark, start, end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading prices: %v\n", err)
		return subcommands.ExitFailure
	}
	returns, err := engine.NewReturnMatrix(prices)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	betas := engine.StaticBetas(returns)
	weights, err := engine.InverseBetaWeights(betas)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	printMarkdown(render.BetaMarkdown(c.src.benchmark, c.capital, betas, weights))
	return subcommands.ExitSuccess
}
