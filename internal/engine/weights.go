package engine

import (
	"math"

	"betahedge/types"
)

// Weights is a signed exposure per symbol, aligned to ReturnMatrix.Symbols.
// Either every entry is zero or the absolute values sum to one.
type Weights []float64

// Gross returns the sum of absolute weights.
func (w Weights) Gross() float64 {
	var g float64
	for _, v := range w {
		g += math.Abs(v)
	}
	return g
}

// Dot applies the weights to a row of returns aligned the same way.
func (w Weights) Dot(returns []float64) float64 {
	var sum float64
	for i, v := range w {
		sum += v * returns[i]
	}
	return sum
}

// IsZero reports whether no position is held.
func (w Weights) IsZero() bool {
	for _, v := range w {
		if v != 0 {
			return false
		}
	}
	return true
}

// Activation is one asset firing a long or short signal on a day.
type Activation struct {
	Symbol    string
	Direction types.Direction
	Beta      float64
	Momentum  float64
}

// SignalInput is the per-asset state the mapper decides on. Undefined values
// never fire.
type SignalInput struct {
	Beta       float64
	BetaOk     bool
	Momentum   float64
	MomentumOk bool
}

// MapWeights turns beta and momentum into normalized directional weights.
// A negative beta with momentum above the threshold goes long 1/|beta|, a
// positive beta with momentum below -threshold goes short 1/|beta|. When
// nothing fires the weights stay all zero.
func MapWeights(symbols []string, inputs []SignalInput, threshold float64) (Weights, []Activation) {
	weights := make(Weights, len(symbols))
	var activations []Activation
	var total float64

	for i, sym := range symbols {
		in := inputs[i]
		if !in.BetaOk || !in.MomentumOk {
			continue
		}
		var dir types.Direction
		switch {
		case in.Beta < 0 && in.Momentum > threshold:
			dir = types.DirectionLong
		case in.Beta > 0 && in.Momentum < -threshold:
			dir = types.DirectionShort
		default:
			continue
		}
		raw := 1 / math.Abs(in.Beta)
		// A beta too small to invert is no position.
		if math.IsInf(raw, 0) || math.IsNaN(raw) {
			continue
		}
		if dir == types.DirectionShort {
			raw = -raw
		}
		activations = append(activations, Activation{sym, dir, in.Beta, in.Momentum})
		weights[i] = raw
		total += math.Abs(raw)
	}

	if total == 0 || math.IsInf(total, 0) || math.IsNaN(total) {
		return make(Weights, len(symbols)), activations
	}
	for i := range weights {
		weights[i] /= total
	}
	return weights, activations
}
