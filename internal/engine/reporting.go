package engine

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Report struct {
	// Meta / period info
	StartDate   time.Time
	EndDate     time.Time
	TotalPeriod time.Duration
	TradingDays int

	// Absolute performance, returns in percent
	InitialValue    decimal.Decimal
	FinalValue      decimal.Decimal
	TotalReturn     decimal.Decimal
	Benchmark       string
	BenchmarkReturn decimal.Decimal
	AssetReturns    map[string]decimal.Decimal
	CAGR            decimal.Decimal

	// Drawdown
	MaxDrawdown        decimal.Decimal
	MaxDrawdownPercent decimal.Decimal
	MaxDrawdownDays    time.Duration

	// Risk-adjusted
	SharpeRatio decimal.Decimal

	// Signals and costs
	LongSignals   int
	ShortSignals  int
	ActiveDays    int
	TotalCosts    decimal.Decimal
	TotalSlippage decimal.Decimal
}

func generateReport(res *Result, sharpeRiskFreeRate decimal.Decimal) *Report {
	points := equityCurve(res)

	report := &Report{}
	report.StartDate = points[0].Date
	report.EndDate = points[len(points)-1].Date
	report.TotalPeriod = report.EndDate.Sub(report.StartDate).Truncate(time.Hour * 24)
	report.TradingDays = len(res.Records)
	report.InitialValue = decimal.NewFromFloat(res.Config.InitialCapital)
	report.FinalValue = decimal.NewFromFloat(res.FinalValue())
	report.LongSignals, report.ShortSignals = res.Counters.Totals()

	var wg sync.WaitGroup
	wg.Add(5)
	go func() {
		report.TotalReturn = calcTotalReturn(res.Values, &wg)
	}()
	go func() {
		report.Benchmark, report.BenchmarkReturn, report.AssetReturns = calcReferenceReturns(res, &wg)
	}()
	go func() {
		report.CAGR = calcCAGR(points, &wg)
	}()
	go func() {
		report.MaxDrawdown, report.MaxDrawdownPercent, report.MaxDrawdownDays = calcDrawdownMetrics(points, &wg)
	}()
	go func() {
		report.SharpeRatio = calcSharpeRatio(points, sharpeRiskFreeRate, &wg)
	}()
	report.ActiveDays, report.TotalCosts, report.TotalSlippage = calcCosts(res.Records)
	wg.Wait()

	return report
}

// equityCurve prepends the initial capital, dated at the first close, to the
// simulated values.
func equityCurve(res *Result) []ValuePoint {
	points := make([]ValuePoint, 0, len(res.Records)+1)
	points = append(points, ValuePoint{Date: res.Prices.Dates[0], Value: res.Values[0]})
	return append(points, res.Points()...)
}

func calcTotalReturn(values []float64, wg *sync.WaitGroup) decimal.Decimal {
	defer wg.Done()
	return percentChange(values[0], values[len(values)-1])
}

func calcReferenceReturns(res *Result, wg *sync.WaitGroup) (string, decimal.Decimal, map[string]decimal.Decimal) {
	defer wg.Done()
	prices := res.Prices
	assets := make(map[string]decimal.Decimal)
	for _, sym := range prices.Assets() {
		assets[sym] = decimal.NewFromFloat(prices.TotalReturn(sym))
	}
	return prices.Benchmark, decimal.NewFromFloat(prices.TotalReturn(prices.Benchmark)), assets
}

func percentChange(start, end float64) decimal.Decimal {
	if start == 0 {
		return decimal.Zero
	}
	s := decimal.NewFromFloat(start)
	return decimal.NewFromFloat(end).Sub(s).Div(s).Mul(hundred)
}

func calcCosts(records []DayRecord) (int, decimal.Decimal, decimal.Decimal) {
	active := 0
	costs := decimal.Zero
	slippage := decimal.Zero
	for _, rec := range records {
		if !rec.Weights.IsZero() {
			active++
		}
		costs = costs.Add(decimal.NewFromFloat(rec.Cost))
		slippage = slippage.Add(decimal.NewFromFloat(rec.Slippage))
	}
	return active, costs, slippage
}

func calcCAGR(points []ValuePoint, wg *sync.WaitGroup) decimal.Decimal {
	defer wg.Done()
	if len(points) < 2 {
		return decimal.Zero
	}

	start := points[0]
	end := points[len(points)-1]

	// If starting value is <= 0, CAGR is not well-defined
	if start.Value <= 0 {
		return decimal.Zero
	}

	// time difference in years (using 365.25 days to account for leap years)
	duration := end.Date.Sub(start.Date)
	if duration <= 0 {
		return decimal.Zero
	}
	years := duration.Hours() / (24.0 * 365.25)

	ratio := end.Value / start.Value
	if ratio <= 0 {
		return decimal.Zero
	}

	return decimal.NewFromFloat(math.Pow(ratio, 1.0/years) - 1.0)
}

func calcDrawdownMetrics(points []ValuePoint, wg *sync.WaitGroup) (decimal.Decimal, decimal.Decimal, time.Duration) {
	defer wg.Done()

	if len(points) == 0 {
		return decimal.Zero, decimal.Zero, 0
	}

	peak := points[0].Value
	peakTime := points[0].Date

	var maxDD, maxDDPct float64
	var maxDDDuration time.Duration

	for _, p := range points {
		if p.Value > peak {
			peak = p.Value
			peakTime = p.Date
		}
		if peak <= 0 {
			continue
		}
		dd := peak - p.Value
		if dd > maxDD {
			maxDD = dd
			maxDDPct = dd / peak
			maxDDDuration = p.Date.Sub(peakTime)
		}
	}

	return decimal.NewFromFloat(maxDD), decimal.NewFromFloat(maxDDPct), maxDDDuration
}

func calcSharpeRatio(points []ValuePoint, annualRiskFree decimal.Decimal, wg *sync.WaitGroup) decimal.Decimal {
	defer wg.Done()
	monthlyReturns := getMonthlyReturns(points)
	if len(monthlyReturns) < 2 {
		// Need at least 2 months to compute stddev
		return decimal.Zero
	}

	// rf_monthly = (1 + rf_annual)^(1/12) - 1
	rfMonthly := math.Pow(1.0+annualRiskFree.InexactFloat64(), 1.0/12.0) - 1.0

	excess := make([]float64, 0, len(monthlyReturns))
	for _, r := range monthlyReturns {
		excess = append(excess, r-rfMonthly)
	}

	var sum float64
	for _, x := range excess {
		sum += x
	}
	mean := sum / float64(len(excess))

	// Sample standard deviation
	var varianceSum float64
	for _, x := range excess {
		diff := x - mean
		varianceSum += diff * diff
	}
	std := math.Sqrt(varianceSum / float64(len(excess)-1))
	if std == 0 {
		return decimal.Zero
	}

	// Monthly Sharpe, annualized by sqrt(12)
	return decimal.NewFromFloat(mean / std * math.Sqrt(12.0))
}

// getMonthlyReturns returns the change between consecutive month-end values.
func getMonthlyReturns(points []ValuePoint) []float64 {
	if len(points) == 0 {
		return nil
	}

	sorted := append([]ValuePoint(nil), points...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	var monthEnds []float64
	var lastYear int
	var lastMonth time.Month
	for i, p := range sorted {
		y, m, _ := p.Date.Date()
		if i > 0 && y == lastYear && m == lastMonth {
			monthEnds[len(monthEnds)-1] = p.Value
			continue
		}
		monthEnds = append(monthEnds, p.Value)
		lastYear, lastMonth = y, m
	}

	if len(monthEnds) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(monthEnds)-1)
	prev := monthEnds[0]
	for _, curr := range monthEnds[1:] {
		if prev <= 0 {
			prev = curr
			continue
		}
		returns = append(returns, curr/prev-1)
		prev = curr
	}
	return returns
}
