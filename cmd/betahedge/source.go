package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"betahedge/internal/render"
	"betahedge/internal/repository"
	"betahedge/types"
)

// priceStore is what every price source offers.
type priceStore interface {
	ClosePrices(ctx context.Context, tickers []string, benchmark string, start, end time.Time) (*types.PriceMatrix, error)
}

// sourceFlags selects and opens a price source. Shared by the commands that
// read prices.
type sourceFlags struct {
	source    string
	csvPath   string
	dbPath    string
	pgURL     string
	tickers   string
	benchmark string
	start     string
	end       string
}

func (s *sourceFlags) register(f *flag.FlagSet) {
	f.StringVar(&s.source, "source", "csv", "Price source: csv, sqlite or postgres")
	f.StringVar(&s.csvPath, "prices", "close_prices.csv", "Close price table for the csv source")
	f.StringVar(&s.dbPath, "db", "betahedge.db", "SQLite database for the sqlite source and the run archive")
	f.StringVar(&s.pgURL, "pg", os.Getenv("DATABASE_URL"), "Postgres connection string for the postgres source")
	f.StringVar(&s.tickers, "tickers", "", "Comma separated tickers. Defaults to every column of the csv source")
	f.StringVar(&s.benchmark, "benchmark", "SPY", "Benchmark ticker")
	f.StringVar(&s.start, "start", "", "First date, YYYY-MM-DD")
	f.StringVar(&s.end, "end", "", "Last date (exclusive), YYYY-MM-DD")
}

// dateRange parses -start and -end; empty values are zero times.
func (s *sourceFlags) dateRange() (start, end time.Time, err error) {
	if s.start != "" {
		if start, err = time.Parse(types.DateFormat, s.start); err != nil {
			return start, end, fmt.Errorf("invalid -start: %w", err)
		}
	}
	if s.end != "" {
		if end, err = time.Parse(types.DateFormat, s.end); err != nil {
			return start, end, fmt.Errorf("invalid -end: %w", err)
		}
	}
	return start, end, nil
}

func (s *sourceFlags) tickerList() []string {
	var out []string
	for _, t := range strings.Split(s.tickers, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, strings.ToUpper(t))
		}
	}
	return out
}

// open returns the selected store, the tickers to load and a cleanup func.
func (s *sourceFlags) open(ctx context.Context) (priceStore, []string, func(), error) {
	tickers := s.tickerList()
	switch s.source {
	case "csv":
		store := repository.NewCSVStore(s.csvPath)
		if len(tickers) == 0 {
			all, err := store.Tickers()
			if err != nil {
				return nil, nil, nil, err
			}
			tickers = all
		}
		return store, tickers, func() {}, nil
	case "sqlite":
		if len(tickers) == 0 {
			return nil, nil, nil, errors.New("-tickers is required for the sqlite source")
		}
		store, err := repository.OpenSQLite(s.dbPath)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, tickers, func() { store.Close() }, nil
	case "postgres":
		if len(tickers) == 0 {
			return nil, nil, nil, errors.New("-tickers is required for the postgres source")
		}
		db, err := repository.NewDatabase(ctx, s.pgURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		return db, tickers, db.Close, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown source %q", s.source)
	}
}

func printMarkdown(md string) {
	out, err := render.Terminal(md, 100)
	if err != nil {
		log.Printf("warning, cannot render markdown: %v", err)
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
