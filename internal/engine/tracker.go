package engine

import (
	"time"

	"betahedge/types"
)

type MonthCount struct {
	Long  int
	Short int
}

// TransactionCounters counts long and short activations per calendar month.
type TransactionCounters struct {
	months []string
	counts map[string]*MonthCount
}

// NewTransactionCounters seeds a zero count for every month covered by dates.
func NewTransactionCounters(dates []time.Time) *TransactionCounters {
	tc := &TransactionCounters{counts: make(map[string]*MonthCount)}
	for _, d := range dates {
		tc.month(d.Format(types.MonthFormat))
	}
	return tc
}

func (tc *TransactionCounters) month(key string) *MonthCount {
	mc, ok := tc.counts[key]
	if !ok {
		mc = &MonthCount{}
		tc.counts[key] = mc
		tc.months = append(tc.months, key)
	}
	return mc
}

// Record adds the day's activations to the month of date.
func (tc *TransactionCounters) Record(date time.Time, activations []Activation) {
	mc := tc.month(date.Format(types.MonthFormat))
	for _, a := range activations {
		switch a.Direction {
		case types.DirectionLong:
			mc.Long++
		case types.DirectionShort:
			mc.Short++
		}
	}
}

// Months lists the months in the order they were first seen.
func (tc *TransactionCounters) Months() []string {
	return append([]string(nil), tc.months...)
}

func (tc *TransactionCounters) Get(month string) MonthCount {
	if mc, ok := tc.counts[month]; ok {
		return *mc
	}
	return MonthCount{}
}

// Totals sums long and short activations over all months.
func (tc *TransactionCounters) Totals() (long, short int) {
	for _, mc := range tc.counts {
		long += mc.Long
		short += mc.Short
	}
	return long, short
}
