package engine

import (
	"math"
	"math/rand"
	"time"

	"betahedge/types"
)

var testStart = time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)

// pricesFromReturns compounds each return series from a close of 100, one
// calendar day apart starting at testStart.
func pricesFromReturns(benchmark string, returns map[string][]float64) *types.PriceMatrix {
	var n int
	for _, r := range returns {
		n = len(r)
	}
	dates := make([]time.Time, n+1)
	for i := range dates {
		dates[i] = testStart.AddDate(0, 0, i)
	}
	closes := make(map[string][]float64, len(returns))
	for sym, r := range returns {
		c := make([]float64, n+1)
		c[0] = 100
		for i, v := range r {
			c[i+1] = c[i] * (1 + v)
		}
		closes[sym] = c
	}
	return types.NewPriceMatrix(dates, benchmark, closes)
}

// randomPrices builds a reproducible random walk for the given symbols.
func randomPrices(seed int64, days int, benchmark string, symbols ...string) *types.PriceMatrix {
	rng := rand.New(rand.NewSource(seed))
	returns := make(map[string][]float64)
	market := make([]float64, days)
	for i := range market {
		market[i] = rng.NormFloat64() * 0.01
	}
	returns[benchmark] = market
	for _, sym := range symbols {
		beta := rng.Float64()*3 - 1.5
		r := make([]float64, days)
		for i := range r {
			r[i] = beta*market[i] + rng.NormFloat64()*0.015
		}
		returns[sym] = r
	}
	return pricesFromReturns(benchmark, returns)
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func zeroCostConfig() SimulationConfig {
	return SimulationConfig{
		Window:              3,
		MomentumWindow:      2,
		MomentumThreshold:   0.01,
		Slippage:            0,
		TransactionCost:     0,
		RebalancingInterval: 5,
		InitialCapital:      100000,
	}
}
