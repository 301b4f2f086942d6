package render

import (
	"errors"
	"fmt"
	"math"

	"betahedge/internal/engine"
	"betahedge/types"

	charts "github.com/vicanso/go-charts/v2"
)

var ErrNothingToPlot = errors.New("no values to plot")

// ValueChart draws the portfolio value next to the benchmark rebased to the
// initial capital, as a PNG.
func ValueChart(res *engine.Result) ([]byte, error) {
	prices := res.Prices
	if prices == nil || len(res.Values) < 2 || len(res.Values) != prices.Len() {
		return nil, ErrNothingToPlot
	}
	bench := prices.Close[prices.Benchmark]
	capital := res.Values[0]

	xLabels := make([]string, len(prices.Dates))
	rebased := make([]float64, len(bench))
	yMin, yMax := math.Inf(1), math.Inf(-1)
	for i, d := range prices.Dates {
		xLabels[i] = d.Format(types.DateFormat)
		rebased[i] = capital * bench[i] / bench[0]
		yMin = math.Min(yMin, math.Min(rebased[i], res.Values[i]))
		yMax = math.Max(yMax, math.Max(rebased[i], res.Values[i]))
	}
	padding := (yMax - yMin) * 0.1
	if padding == 0 {
		padding = yMax * 0.05
	}
	yMin -= padding
	yMax += padding

	splitNum := 6
	if len(xLabels) <= 30 {
		splitNum = max(len(xLabels)/3, 3)
	}

	names := []string{"Portfolio", prices.Benchmark}
	p, err := charts.LineRender(
		[][]float64{res.Values, rebased},
		charts.TitleTextOptionFunc("Portfolio Value", fmt.Sprintf("%s to %s",
			xLabels[0], xLabels[len(xLabels)-1])),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        xLabels,
			SplitNumber: splitNum,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{
			Min:         &yMin,
			Max:         &yMax,
			DivideCount: 5,
		}),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: names,
			Top:  charts.PositionTop,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(1000),
		charts.HeightOptionFunc(600),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}

// SeriesChart draws a single value series, as a PNG.
func SeriesChart(title string, points []engine.ValuePoint) ([]byte, error) {
	if len(points) < 2 {
		return nil, ErrNothingToPlot
	}
	xLabels := make([]string, len(points))
	values := make([]float64, len(points))
	for i, p := range points {
		xLabels[i] = p.Date.Format(types.DateFormat)
		values[i] = p.Value
	}
	p, err := charts.LineRender(
		[][]float64{values},
		charts.TitleTextOptionFunc(title),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        xLabels,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return p.Bytes()
}
