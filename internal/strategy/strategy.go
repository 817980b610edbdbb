// Package strategy turns aligned price frames into deterministic trading
// positions. Every generator is always in the market: the only outputs are
// Long (+1) and Short (-1), and the position at a row is a pure function of
// that row, with no state carried between rows.
package strategy

import "github.com/theredplanetsings/tradelab/internal/series"

// Position values emitted by every generator.
const (
	Long  = 1
	Short = -1
)

// Generator derives one position per frame row.
type Generator interface {
	// Name identifies the generator and its parameters in reports.
	Name() string
	// Windows lists the rolling windows the frame must carry.
	Windows() []int
	// Positions returns exactly one Long or Short value per frame row.
	Positions(f *series.Frame) ([]int, error)
}
