package engine

import (
	"context"
	"time"

	"betahedge/types"
)

type dataStore interface {
	ClosePrices(ctx context.Context, tickers []string, benchmark string, start, end time.Time) (*types.PriceMatrix, error)
}

// RunArchive persists finished simulations.
type RunArchive interface {
	SaveRun(ctx context.Context, run ArchivedRun) (int64, error)
}

// ArchivedRun is the shape of a simulation as it is stored.
type ArchivedRun struct {
	Name      string
	Benchmark string
	Config    SimulationConfig
	Points    []ValuePoint
	Months    []string
	Counts    map[string]MonthCount
}

// Archive flattens a result for a RunArchive.
func (r *Result) Archive(name string) ArchivedRun {
	counts := make(map[string]MonthCount)
	for _, m := range r.Counters.Months() {
		counts[m] = r.Counters.Get(m)
	}
	return ArchivedRun{
		Name:      name,
		Benchmark: r.Prices.Benchmark,
		Config:    r.Config,
		Points:    r.Points(),
		Months:    r.Counters.Months(),
		Counts:    counts,
	}
}
