package render

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"time"

	"betahedge/internal/engine"
	"betahedge/types"

	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
)

// SummaryMarkdown renders the performance report and the monthly
// transaction counts of a finished simulation.
func SummaryMarkdown(res *engine.Result) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	r := res.Report

	doc.H1(fmt.Sprintf("Simulation from %s to %s",
		r.StartDate.Format(types.DateFormat), r.EndDate.Format(types.DateFormat)))
	doc.PlainText(fmt.Sprintf("Initial capital %s, final value %s over %d trading days.",
		formatMoney(r.InitialValue), formatMoney(r.FinalValue), r.TradingDays))

	doc.H2("Performance")
	doc.Table(md.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total Return", formatSignedPercent(r.TotalReturn)},
			{fmt.Sprintf("Benchmark (%s)", r.Benchmark), formatSignedPercent(r.BenchmarkReturn)},
			{"CAGR", formatSignedPercent(r.CAGR.Mul(decimal.NewFromInt(100)))},
			{"Max Drawdown", fmt.Sprintf("%s (%s)", formatMoney(r.MaxDrawdown),
				formatPercent(r.MaxDrawdownPercent.Mul(decimal.NewFromInt(100))))},
			{"Max Drawdown Duration", fmt.Sprintf("%d days", int(r.MaxDrawdownDays/(24*time.Hour)))},
			{"Sharpe Ratio", r.SharpeRatio.StringFixed(2)},
			{"Transaction Costs", formatMoney(r.TotalCosts)},
			{"Slippage", formatMoney(r.TotalSlippage)},
		},
	})

	doc.H2("Reference Assets")
	assets := make([]string, 0, len(r.AssetReturns))
	for sym := range r.AssetReturns {
		assets = append(assets, sym)
	}
	sort.Strings(assets)
	rows := make([][]string, 0, len(assets))
	for _, sym := range assets {
		rows = append(rows, []string{sym, formatSignedPercent(r.AssetReturns[sym])})
	}
	doc.Table(md.TableSet{Header: []string{"Asset", "Return"}, Rows: rows})

	doc.H2("Transactions")
	doc.PlainText(fmt.Sprintf("%d long and %d short signals on %d active days.",
		r.LongSignals, r.ShortSignals, r.ActiveDays))
	months := res.Counters.Months()
	rows = make([][]string, 0, len(months))
	for _, m := range months {
		mc := res.Counters.Get(m)
		rows = append(rows, []string{m, strconv.Itoa(mc.Long), strconv.Itoa(mc.Short)})
	}
	doc.Table(md.TableSet{Header: []string{"Month", "Long", "Short"}, Rows: rows})

	return doc.String()
}

// BetaMarkdown renders full-sample betas and the inverse-beta allocation of
// capital. weights may be nil when the betas do not normalize.
func BetaMarkdown(benchmark string, capital float64, betas, weights map[string]float64) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Betas against %s", benchmark))

	syms := make([]string, 0, len(betas))
	for sym := range betas {
		syms = append(syms, sym)
	}
	sort.Strings(syms)

	rows := make([][]string, 0, len(syms))
	for _, sym := range syms {
		row := []string{sym, strconv.FormatFloat(betas[sym], 'f', 4, 64)}
		if w, ok := weights[sym]; ok {
			row = append(row, formatPercent(decimal.NewFromFloat(w*100)), formatMoneyFloat(w*capital))
		} else {
			row = append(row, "-", "-")
		}
		rows = append(rows, row)
	}
	doc.Table(md.TableSet{
		Header: []string{"Asset", "Beta", "Weight", "Allocation"},
		Rows:   rows,
	})
	return doc.String()
}

// SeriesMarkdown renders an archived value series with its change from the
// first value.
func SeriesMarkdown(title string, points []engine.ValuePoint) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(title)

	rows := make([][]string, 0, len(points))
	for _, p := range points {
		change := decimal.Zero
		if first := points[0].Value; first != 0 {
			change = decimal.NewFromFloat((p.Value - first) / first * 100)
		}
		rows = append(rows, []string{p.Date.Format(types.DateFormat), formatMoneyFloat(p.Value), formatSignedPercent(change)})
	}
	doc.Table(md.TableSet{Header: []string{"Date", "Value", "Change"}, Rows: rows})
	return doc.String()
}
