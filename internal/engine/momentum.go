package engine

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Momentum sums each symbol's returns over the trailing window, current day
// included. Values before the window is full are undefined.
func Momentum(returns *ReturnMatrix, window int) (map[string]Series, error) {
	if window < 1 {
		return nil, fmt.Errorf("momentum window %d < 1: %w", window, ErrInvalidConfig)
	}
	out := make([]Series, len(returns.Symbols))

	var g errgroup.Group
	for i, sym := range returns.Symbols {
		i, sym := i, sym
		g.Go(func() error {
			r := returns.Returns[sym]
			s := undefinedSeries(len(r))
			for t := window - 1; t < len(r); t++ {
				var sum float64
				for _, v := range r[t-window+1 : t+1] {
					sum += v
				}
				s[t] = sum
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	momentum := make(map[string]Series, len(out))
	for i, sym := range returns.Symbols {
		momentum[sym] = out[i]
	}
	return momentum, nil
}
