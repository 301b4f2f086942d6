package engine

import (
	"fmt"
	"time"

	"betahedge/types"

	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
)

// SimState is everything one trading day hands to the next.
type SimState struct {
	Value    float64
	DayIndex int
}

// DayRecord describes what happened on one simulated day.
type DayRecord struct {
	Date        time.Time
	DayIndex    int
	Weights     Weights
	Activations []Activation
	DailyReturn float64
	Slippage    float64
	Cost        float64
	Rebalanced  bool
	StartValue  float64
	Value       float64
}

// ValuePoint is a dated portfolio value.
type ValuePoint struct {
	Date  time.Time
	Value float64
}

type Result struct {
	Config   SimulationConfig
	Prices   *types.PriceMatrix
	Returns  *ReturnMatrix
	Betas    map[string]Series
	Momentum map[string]Series
	Records  []DayRecord
	// Values[0] is the initial capital, Values[i+1] the value after day i.
	Values   []float64
	Counters *TransactionCounters
	Report   *Report
}

// Points pairs every simulated date with the value at its close.
func (r *Result) Points() []ValuePoint {
	points := make([]ValuePoint, len(r.Records))
	for i, rec := range r.Records {
		points[i] = ValuePoint{Date: rec.Date, Value: rec.Value}
	}
	return points
}

func (r *Result) FinalValue() float64 {
	return r.Values[len(r.Values)-1]
}

type simulator struct {
	config   SimulationConfig
	returns  *ReturnMatrix
	betas    map[string]Series
	momentum map[string]Series
	bar      *progressbar.ProgressBar
}

func newSimulator(returns *ReturnMatrix, config SimulationConfig) (*simulator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	betas, err := RollingBeta(returns, config.Window)
	if err != nil {
		return nil, err
	}
	momentum, err := Momentum(returns, config.MomentumWindow)
	if err != nil {
		return nil, err
	}
	return &simulator{
		config:   config,
		returns:  returns,
		betas:    betas,
		momentum: momentum,
	}, nil
}

// Simulate runs the strategy over prices without progress output. The
// report uses a zero risk-free rate.
func Simulate(prices *types.PriceMatrix, config SimulationConfig) (*Result, error) {
	returns, err := NewReturnMatrix(prices)
	if err != nil {
		return nil, err
	}
	sim, err := newSimulator(returns, config)
	if err != nil {
		return nil, err
	}
	res := sim.run(prices)
	res.Report = generateReport(res, decimal.Zero)
	return res, nil
}

// weightsAt returns the target weights for day i using data up to day i only.
func (s *simulator) weightsAt(i int) (Weights, []Activation) {
	symbols := s.returns.Symbols
	if i < s.config.MomentumWindow-1 {
		return make(Weights, len(symbols)), nil
	}
	inputs := make([]SignalInput, len(symbols))
	for j, sym := range symbols {
		var in SignalInput
		if beta, ok := s.betas[sym]; ok {
			in.Beta, in.BetaOk = beta.At(i)
		}
		in.Momentum, in.MomentumOk = s.momentum[sym].At(i)
		inputs[j] = in
	}
	return MapWeights(symbols, inputs, s.config.MomentumThreshold)
}

// step applies day state.DayIndex to state and returns the next state.
func (s *simulator) step(state SimState) (SimState, DayRecord) {
	i := state.DayIndex
	weights, activations := s.weightsAt(i)
	daily := weights.Dot(s.returns.Row(i))

	rec := DayRecord{
		Date:        s.returns.Dates[i],
		DayIndex:    i,
		Weights:     weights,
		Activations: activations,
		DailyReturn: daily,
		Slippage:    state.Value * s.config.Slippage,
		StartValue:  state.Value,
	}
	value := state.Value * (1 + daily - s.config.Slippage)
	if (i+1)%s.config.RebalancingInterval == 0 {
		// Charged on the value before today's move.
		rec.Cost = s.config.TransactionCost * state.Value
		rec.Rebalanced = true
		value -= rec.Cost
	}
	rec.Value = value
	return SimState{Value: value, DayIndex: i + 1}, rec
}

func (s *simulator) run(prices *types.PriceMatrix) *Result {
	n := s.returns.Len()
	res := &Result{
		Config:   s.config,
		Prices:   prices,
		Returns:  s.returns,
		Betas:    s.betas,
		Momentum: s.momentum,
		Records:  make([]DayRecord, 0, n),
		Values:   make([]float64, 0, n+1),
		Counters: NewTransactionCounters(s.returns.Dates),
	}

	state := SimState{Value: s.config.InitialCapital}
	res.Values = append(res.Values, state.Value)
	for state.DayIndex < n {
		var rec DayRecord
		state, rec = s.step(state)
		res.Records = append(res.Records, rec)
		res.Values = append(res.Values, rec.Value)
		res.Counters.Record(rec.Date, rec.Activations)
		if s.bar != nil {
			s.bar.Add(1)
		}
	}
	if s.bar != nil {
		s.bar.Finish()
	}
	return res
}

func initProgressBar(maxTicks int) *progressbar.ProgressBar {
	return progressbar.NewOptions(maxTicks,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription(fmt.Sprintf("Simulating %d trading days...", maxTicks)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
