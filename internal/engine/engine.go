package engine

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

type Engine struct {
	db              dataStore
	archive         RunArchive
	feed            *DataFeedConfig
	simConfig       SimulationConfig
	reportingConfig *ReportingConfig
	showProgress    bool
}

func NewEngine(feed *DataFeedConfig, simConfig SimulationConfig, reportingConfig *ReportingConfig, db dataStore) *Engine {
	if reportingConfig == nil {
		reportingConfig = NewReportingConfig(decimal.Zero, false, "", "")
	}
	return &Engine{
		db:              db,
		feed:            feed,
		simConfig:       simConfig,
		reportingConfig: reportingConfig,
	}
}

// WithProgress shows a progress bar while days are simulated.
func (e *Engine) WithProgress(show bool) *Engine {
	e.showProgress = show
	return e
}

// WithArchive stores every finished run in archive.
func (e *Engine) WithArchive(archive RunArchive) *Engine {
	e.archive = archive
	return e
}

func (e *Engine) Run(ctx context.Context) (*Result, error) {
	if err := e.simConfig.Validate(); err != nil {
		return nil, err
	}
	// Load the data
	prices, err := e.db.ClosePrices(ctx, e.feed.tickers, e.feed.benchmark, e.feed.start, e.feed.end)
	if err != nil {
		return nil, fmt.Errorf("load prices: %w", err)
	}
	returns, err := NewReturnMatrix(prices)
	if err != nil {
		return nil, err
	}
	sim, err := newSimulator(returns, e.simConfig)
	if err != nil {
		return nil, err
	}
	if e.showProgress {
		sim.bar = initProgressBar(returns.Len())
	}
	// Do the run loop
	res := sim.run(prices)
	res.Report = generateReport(res, e.reportingConfig.sharpeRiskFreeRate)

	if e.reportingConfig.writeFiles {
		if err := e.writeReportFiles(res); err != nil {
			return res, err
		}
	}
	if e.archive != nil {
		if _, err := e.archive.SaveRun(ctx, res.Archive(e.reportingConfig.reportName)); err != nil {
			return res, fmt.Errorf("archive run: %w", err)
		}
	}
	return res, nil
}
