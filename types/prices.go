package types

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"time"
)

var ErrMisalignedInput = errors.New("misaligned price table")

// PriceMatrix is an aligned table of daily closes. Every symbol has exactly
// one close per date and Dates is strictly increasing.
type PriceMatrix struct {
	Dates     []time.Time
	Symbols   []string
	Benchmark string
	Close     map[string][]float64
}

func NewPriceMatrix(dates []time.Time, benchmark string, closes map[string][]float64) *PriceMatrix {
	symbols := make([]string, 0, len(closes))
	for sym := range closes {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	return &PriceMatrix{
		Dates:     dates,
		Symbols:   symbols,
		Benchmark: benchmark,
		Close:     closes,
	}
}

// Len returns the number of dates in the table.
func (p *PriceMatrix) Len() int { return len(p.Dates) }

// Assets returns every symbol except the benchmark, in table order.
func (p *PriceMatrix) Assets() []string {
	out := make([]string, 0, len(p.Symbols))
	for _, sym := range p.Symbols {
		if sym != p.Benchmark {
			out = append(out, sym)
		}
	}
	return out
}

// Validate checks the structural preconditions every consumer relies on.
func (p *PriceMatrix) Validate() error {
	if p == nil {
		return fmt.Errorf("nil price table: %w", ErrMisalignedInput)
	}
	if p.Benchmark == "" {
		return fmt.Errorf("no benchmark symbol: %w", ErrMisalignedInput)
	}
	if !slices.Contains(p.Symbols, p.Benchmark) {
		return fmt.Errorf("benchmark %s not in table: %w", p.Benchmark, ErrMisalignedInput)
	}
	if len(p.Symbols) != len(p.Close) {
		return fmt.Errorf("%d symbols but %d close series: %w", len(p.Symbols), len(p.Close), ErrMisalignedInput)
	}
	for i := 1; i < len(p.Dates); i++ {
		if !p.Dates[i].After(p.Dates[i-1]) {
			return fmt.Errorf("date %s not after %s: %w",
				p.Dates[i].Format(DateFormat), p.Dates[i-1].Format(DateFormat), ErrMisalignedInput)
		}
	}
	for _, sym := range p.Symbols {
		closes, ok := p.Close[sym]
		if !ok {
			return fmt.Errorf("no closes for %s: %w", sym, ErrMisalignedInput)
		}
		if len(closes) != len(p.Dates) {
			return fmt.Errorf("%s has %d closes for %d dates: %w", sym, len(closes), len(p.Dates), ErrMisalignedInput)
		}
		for i, c := range closes {
			if math.IsNaN(c) || math.IsInf(c, 0) || c <= 0 {
				return fmt.Errorf("%s close %v on %s: %w", sym, c, p.Dates[i].Format(DateFormat), ErrMisalignedInput)
			}
		}
	}
	return nil
}

// TotalReturn returns (last-first)/first*100 for a symbol.
func (p *PriceMatrix) TotalReturn(sym string) float64 {
	closes := p.Close[sym]
	if len(closes) == 0 || closes[0] == 0 {
		return 0
	}
	first, last := closes[0], closes[len(closes)-1]
	return (last - first) / first * 100
}

// AlignCloses builds a PriceMatrix from unordered rows, keeping only the dates
// on which every requested ticker has a close.
func AlignCloses(rows []ClosePrice, tickers []string, benchmark string) (*PriceMatrix, error) {
	byDay := make(map[time.Time]map[string]float64)
	seen := make(map[string]bool)
	for _, r := range rows {
		day := truncateDay(r.Date)
		m := byDay[day]
		if m == nil {
			m = make(map[string]float64, len(tickers))
			byDay[day] = m
		}
		m[r.Ticker] = r.Close
		seen[r.Ticker] = true
	}
	for _, t := range tickers {
		if !seen[t] {
			return nil, fmt.Errorf("no prices for %s: %w", t, ErrMisalignedInput)
		}
	}

	var dates []time.Time
	for day, m := range byDay {
		complete := true
		for _, t := range tickers {
			if _, ok := m[t]; !ok {
				complete = false
				break
			}
		}
		if complete {
			dates = append(dates, day)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	closes := make(map[string][]float64, len(tickers))
	for _, t := range tickers {
		series := make([]float64, len(dates))
		for i, d := range dates {
			series[i] = byDay[d][t]
		}
		closes[t] = series
	}
	pm := NewPriceMatrix(dates, benchmark, closes)
	return pm, pm.Validate()
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
