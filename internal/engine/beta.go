package engine

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
)

var ErrZeroNormalizer = errors.New("weights do not normalize")

// Relative tolerance under which the benchmark window is treated as constant.
const singularTolerance = 1e-12

// RollingBeta estimates, for every non-benchmark asset, the OLS slope of the
// asset's returns on the benchmark's returns over a trailing window ending at
// each date. The first window-1 values and singular windows are undefined.
func RollingBeta(returns *ReturnMatrix, window int) (map[string]Series, error) {
	if window < 2 {
		return nil, fmt.Errorf("beta window %d < 2: %w", window, ErrInvalidConfig)
	}
	market := returns.Returns[returns.Benchmark]
	assets := returns.Assets()
	out := make([]Series, len(assets))

	var g errgroup.Group
	for i, sym := range assets {
		i, sym := i, sym
		g.Go(func() error {
			y := returns.Returns[sym]
			s := undefinedSeries(len(y))
			for t := window - 1; t < len(y); t++ {
				s[t] = olsSlope(market[t-window+1:t+1], y[t-window+1:t+1])
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	betas := make(map[string]Series, len(assets))
	for i, sym := range assets {
		betas[sym] = out[i]
	}
	return betas, nil
}

// olsSlope fits y = a + b*x and returns b, or NaN when x has no variance.
func olsSlope(x, y []float64) float64 {
	n := float64(len(x))
	if len(x) < 2 || len(x) != len(y) {
		return math.NaN()
	}
	var sumX, sumY float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var sxx, sxy, sumSq float64
	for i := range x {
		dx := x[i] - meanX
		sxx += dx * dx
		sxy += dx * (y[i] - meanY)
		sumSq += x[i] * x[i]
	}
	if sxx <= singularTolerance*sumSq {
		return math.NaN()
	}
	return sxy / sxx
}

// StaticBetas fits one beta per asset over the whole return history.
func StaticBetas(returns *ReturnMatrix) map[string]float64 {
	market := returns.Returns[returns.Benchmark]
	betas := make(map[string]float64)
	for _, sym := range returns.Assets() {
		betas[sym] = olsSlope(market, returns.Returns[sym])
	}
	return betas
}

// InverseBetaWeights weights each asset by (1/beta)/sum(1/beta).
func InverseBetaWeights(betas map[string]float64) (map[string]float64, error) {
	var total float64
	for sym, b := range betas {
		if math.IsNaN(b) || b == 0 {
			return nil, fmt.Errorf("beta of %s is %v: %w", sym, b, ErrZeroNormalizer)
		}
		total += 1 / b
	}
	if total == 0 || math.IsNaN(total) {
		return nil, fmt.Errorf("sum of inverse betas is %v: %w", total, ErrZeroNormalizer)
	}
	weights := make(map[string]float64, len(betas))
	for sym, b := range betas {
		weights[sym] = (1 / b) / total
	}
	return weights, nil
}
