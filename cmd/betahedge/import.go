package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"betahedge/internal/repository"
	"betahedge/types"

	"github.com/google/subcommands"
)

type importCmd struct {
	dbPath    string
	benchmark string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "load a close price CSV into the SQLite cache" }
func (*importCmd) Usage() string {
	return `betahedge import [-db betahedge.db] [-benchmark SPY] <close_prices.csv>...

  Reads Date,<TICKER>... tables and stores the dates on which every ticker
  has a close.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dbPath, "db", "betahedge.db", "SQLite database to write to")
	f.StringVar(&c.benchmark, "benchmark", "SPY", "Benchmark ticker, must be a column of every file")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: no CSV file given")
		return subcommands.ExitUsageError
	}
	store, err := repository.OpenSQLite(c.dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", c.dbPath, err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	for _, path := range f.Args() {
		n, err := importFile(ctx, store, path, c.benchmark)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error importing %s: %v\n", path, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("%s: %d closes imported\n", path, n)
	}
	return subcommands.ExitSuccess
}

func importFile(ctx context.Context, store *repository.SQLiteStore, path, benchmark string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	rows, err := repository.ReadClosesCSV(f)
	if err != nil {
		return 0, err
	}
	tickers, err := repository.NewCSVStore(path).Tickers()
	if err != nil {
		return 0, err
	}
	pm, err := types.AlignCloses(rows, tickers, benchmark)
	if err != nil {
		return 0, err
	}
	return store.ImportPrices(ctx, pm)
}
