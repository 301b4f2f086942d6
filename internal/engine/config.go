package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidConfig = errors.New("invalid simulation config")

type DataFeedConfig struct {
	tickers   []string
	benchmark string
	start     time.Time
	end       time.Time
}

// NewDataFeedConfig describes the close prices to load. The benchmark is
// added to tickers when missing.
func NewDataFeedConfig(tickers []string, benchmark string, start, end time.Time) *DataFeedConfig {
	all := append([]string(nil), tickers...)
	found := false
	for _, t := range all {
		if t == benchmark {
			found = true
			break
		}
	}
	if !found {
		all = append(all, benchmark)
	}
	return &DataFeedConfig{
		tickers:   all,
		benchmark: benchmark,
		start:     start,
		end:       end,
	}
}

// Tickers returns every ticker to load, benchmark included.
func (c *DataFeedConfig) Tickers() []string { return c.tickers }

type SimulationConfig struct {
	Window              int     `json:"window"`
	MomentumWindow      int     `json:"momentum_window"`
	MomentumThreshold   float64 `json:"momentum_threshold"`
	Slippage            float64 `json:"slippage"`
	TransactionCost     float64 `json:"transaction_cost"`
	RebalancingInterval int     `json:"rebalancing_interval"`
	InitialCapital      float64 `json:"initial_capital"`
}

// DefaultSimulationConfig returns the parameters the strategy was tuned with.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		Window:              8,
		MomentumWindow:      3,
		MomentumThreshold:   0.02,
		Slippage:            0.0005,
		TransactionCost:     0.001,
		RebalancingInterval: 5,
		InitialCapital:      100000,
	}
}

// LoadSimulationConfig reads a JSON file on top of the defaults, so a file
// only needs the fields it overrides.
func LoadSimulationConfig(path string) (SimulationConfig, error) {
	cfg := DefaultSimulationConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c SimulationConfig) Validate() error {
	switch {
	case c.Window < 2:
		return fmt.Errorf("window %d < 2: %w", c.Window, ErrInvalidConfig)
	case c.MomentumWindow < 1:
		return fmt.Errorf("momentum window %d < 1: %w", c.MomentumWindow, ErrInvalidConfig)
	case c.RebalancingInterval < 1:
		return fmt.Errorf("rebalancing interval %d < 1: %w", c.RebalancingInterval, ErrInvalidConfig)
	case c.InitialCapital <= 0:
		return fmt.Errorf("initial capital %v <= 0: %w", c.InitialCapital, ErrInvalidConfig)
	case c.MomentumThreshold < 0:
		return fmt.Errorf("momentum threshold %v < 0: %w", c.MomentumThreshold, ErrInvalidConfig)
	case c.Slippage < 0 || c.TransactionCost < 0:
		return fmt.Errorf("negative slippage or transaction cost: %w", ErrInvalidConfig)
	}
	return nil
}

type ReportingConfig struct {
	sharpeRiskFreeRate decimal.Decimal
	writeFiles         bool
	reportName         string
	filePath           string
}

func NewReportingConfig(sharpeRiskFreeRate decimal.Decimal, writeFiles bool, reportName string, filePath string) *ReportingConfig {
	return &ReportingConfig{
		sharpeRiskFreeRate: sharpeRiskFreeRate,
		writeFiles:         writeFiles,
		reportName:         reportName,
		filePath:           filePath,
	}
}
