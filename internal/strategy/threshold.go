package strategy

import (
	"fmt"

	"github.com/theredplanetsings/tradelab/internal/series"
)

// ThresholdCrossover holds Long while the price trades strictly above its
// moving average and Short otherwise. With a 150-bar window this is the
// Weinstein stage gauge over daily bars.
type ThresholdCrossover struct {
	window int
}

// NewThresholdCrossover validates the window and builds the generator.
func NewThresholdCrossover(window int) (*ThresholdCrossover, error) {
	if window < 1 {
		return nil, fmt.Errorf("threshold window %d must be positive: %w", window, series.ErrConfig)
	}
	return &ThresholdCrossover{window: window}, nil
}

func (g *ThresholdCrossover) Name() string {
	return fmt.Sprintf("threshold(%d)", g.window)
}

func (g *ThresholdCrossover) Windows() []int {
	return []int{g.window}
}

// Positions compares each row's price against its moving average. A tie is
// not a long signal: only a strict premium over the mean goes Long.
func (g *ThresholdCrossover) Positions(f *series.Frame) ([]int, error) {
	sma, ok := f.SMA[g.window]
	if !ok {
		return nil, fmt.Errorf("frame lacks SMA(%d): %w", g.window, series.ErrInvalidInput)
	}
	out := make([]int, f.Rows())
	for i := range out {
		if f.Prices[i] > sma[i] {
			out[i] = Long
		} else {
			out[i] = Short
		}
	}
	return out, nil
}
