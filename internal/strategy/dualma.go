package strategy

import (
	"fmt"

	"github.com/theredplanetsings/tradelab/internal/series"
)

// DualMACrossover holds Long while the short moving average trades strictly
// above the long one and Short otherwise.
type DualMACrossover struct {
	short int
	long  int
}

// NewDualMACrossover validates the window pair and builds the generator.
// The short window must be strictly below the long one; equal windows would
// pin the comparison at a permanent tie, which is a misconfiguration rather
// than a strategy.
func NewDualMACrossover(short, long int) (*DualMACrossover, error) {
	if short < 1 || long < 1 {
		return nil, fmt.Errorf("windows %d/%d must be positive: %w", short, long, series.ErrConfig)
	}
	if short >= long {
		return nil, fmt.Errorf("short window %d must be below long window %d: %w", short, long, series.ErrConfig)
	}
	return &DualMACrossover{short: short, long: long}, nil
}

func (g *DualMACrossover) Name() string {
	return fmt.Sprintf("crossover(%d,%d)", g.short, g.long)
}

func (g *DualMACrossover) Windows() []int {
	return []int{g.short, g.long}
}

// Positions compares the two moving averages row by row. Ties go Short, the
// same convention as ThresholdCrossover.
func (g *DualMACrossover) Positions(f *series.Frame) ([]int, error) {
	fast, ok := f.SMA[g.short]
	if !ok {
		return nil, fmt.Errorf("frame lacks SMA(%d): %w", g.short, series.ErrInvalidInput)
	}
	slow, ok := f.SMA[g.long]
	if !ok {
		return nil, fmt.Errorf("frame lacks SMA(%d): %w", g.long, series.ErrInvalidInput)
	}
	out := make([]int, f.Rows())
	for i := range out {
		if fast[i] > slow[i] {
			out[i] = Long
		} else {
			out[i] = Short
		}
	}
	return out, nil
}
