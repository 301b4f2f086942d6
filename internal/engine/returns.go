package engine

import (
	"fmt"
	"math"
	"time"

	"betahedge/types"
)

// Series holds one value per ReturnMatrix date. NaN marks a date without a
// value (warm-up or singular regression).
type Series []float64

func undefinedSeries(n int) Series {
	s := make(Series, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}

// At returns the value at i and whether it is defined.
func (s Series) At(i int) (float64, bool) {
	if i < 0 || i >= len(s) || math.IsNaN(s[i]) {
		return 0, false
	}
	return s[i], true
}

// ReturnMatrix holds simple daily returns. Dates starts at the second price date.
type ReturnMatrix struct {
	Dates     []time.Time
	Symbols   []string
	Benchmark string
	Returns   map[string][]float64
}

// NewReturnMatrix converts closes into returns price[t]/price[t-1]-1.
func NewReturnMatrix(prices *types.PriceMatrix) (*ReturnMatrix, error) {
	if err := prices.Validate(); err != nil {
		return nil, err
	}
	if prices.Len() < 2 {
		return nil, fmt.Errorf("need at least 2 dates, got %d: %w", prices.Len(), types.ErrMisalignedInput)
	}
	rm := &ReturnMatrix{
		Dates:     prices.Dates[1:],
		Symbols:   prices.Symbols,
		Benchmark: prices.Benchmark,
		Returns:   make(map[string][]float64, len(prices.Symbols)),
	}
	for _, sym := range prices.Symbols {
		closes := prices.Close[sym]
		r := make([]float64, len(closes)-1)
		for t := 1; t < len(closes); t++ {
			r[t-1] = closes[t]/closes[t-1] - 1
		}
		rm.Returns[sym] = r
	}
	return rm, nil
}

func (r *ReturnMatrix) Len() int { return len(r.Dates) }

// Row returns the returns of date i aligned to Symbols.
func (r *ReturnMatrix) Row(i int) []float64 {
	row := make([]float64, len(r.Symbols))
	for j, sym := range r.Symbols {
		row[j] = r.Returns[sym][i]
	}
	return row
}

// Assets returns the non-benchmark symbols.
func (r *ReturnMatrix) Assets() []string {
	out := make([]string, 0, len(r.Symbols))
	for _, sym := range r.Symbols {
		if sym != r.Benchmark {
			out = append(out, sym)
		}
	}
	return out
}
