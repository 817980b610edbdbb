// Package analytics computes cross-asset diagnostics over return series:
// pairwise correlation structure with diversification counts, and annualized
// risk/reward summaries. Inputs must already share an aligned index where
// one is required; alignment itself happens upstream in the series package.
package analytics

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/theredplanetsings/tradelab/internal/series"
)

// DefaultLowCorrThreshold is the |correlation| bound under which two assets
// count as diversifying each other.
const DefaultLowCorrThreshold = 0.4

// LowCorrelation reports how many of the other assets move loosely with one
// symbol, and which ones they are.
type LowCorrelation struct {
	Symbol   string   `json:"symbol"`
	Count    int      `json:"count"`
	Partners []string `json:"partners"` // sorted symbols with |corr| below the threshold
}

// CorrelatedPair is one off-diagonal matrix entry, used for ranked reports.
type CorrelatedPair struct {
	A           string  `json:"a"`
	B           string  `json:"b"`
	Correlation float64 `json:"correlation"`
}

// CorrelationResult is the full pairwise structure of one asset set. Matrix
// is symmetric with a unit diagonal and rows ordered like Symbols.
type CorrelationResult struct {
	Symbols        []string         `json:"symbols"`
	Matrix         [][]float64      `json:"matrix"`
	Threshold      float64          `json:"threshold"`
	LowCorrelation []LowCorrelation `json:"low_correlation"`
}

// AnalyzeCorrelation builds the Pearson correlation matrix over aligned
// return series. Symbols with no observations at all are dropped first;
// missing data is never zero-filled. The threshold bounds the
// diversification count and must sit in [0, 1].
func AnalyzeCorrelation(returns map[string][]float64, threshold float64) (*CorrelationResult, error) {
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("correlation threshold %v outside [0, 1]: %w", threshold, series.ErrConfig)
	}

	symbols := make([]string, 0, len(returns))
	for symbol, rets := range returns {
		if len(rets) == 0 {
			continue
		}
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	if len(symbols) < 2 {
		return nil, fmt.Errorf("correlation needs at least two assets with data, got %d: %w",
			len(symbols), series.ErrConfig)
	}

	n := len(returns[symbols[0]])
	for _, symbol := range symbols {
		rets := returns[symbol]
		if len(rets) != n {
			return nil, fmt.Errorf("series %s has %d rows, expected %d aligned rows: %w",
				symbol, len(rets), n, series.ErrInvalidInput)
		}
		if err := checkSeries(symbol, rets); err != nil {
			return nil, err
		}
	}
	if n < 2 {
		return nil, fmt.Errorf("%d shared rows cannot support correlation: %w", n, series.ErrInsufficientData)
	}

	matrix := make([][]float64, len(symbols))
	for i := range matrix {
		matrix[i] = make([]float64, len(symbols))
		matrix[i][i] = 1.0
	}
	for i := 0; i < len(symbols); i++ {
		for j := i + 1; j < len(symbols); j++ {
			c := clampCorr(stat.Correlation(returns[symbols[i]], returns[symbols[j]], nil))
			matrix[i][j] = c
			matrix[j][i] = c
		}
	}

	res := &CorrelationResult{
		Symbols:   symbols,
		Matrix:    matrix,
		Threshold: threshold,
	}
	for i, symbol := range symbols {
		low := LowCorrelation{Symbol: symbol}
		for j, other := range symbols {
			if j == i {
				continue
			}
			if math.Abs(matrix[i][j]) < threshold {
				low.Count++
				low.Partners = append(low.Partners, other)
			}
		}
		res.LowCorrelation = append(res.LowCorrelation, low)
	}
	return res, nil
}

// TopPairs returns the n most correlated distinct pairs, strongest first.
// Non-positive n, or n beyond the pair count, returns every pair.
func (r *CorrelationResult) TopPairs(n int) []CorrelatedPair {
	pairs := make([]CorrelatedPair, 0, len(r.Symbols)*(len(r.Symbols)-1)/2)
	for i := 0; i < len(r.Symbols); i++ {
		for j := i + 1; j < len(r.Symbols); j++ {
			pairs = append(pairs, CorrelatedPair{
				A:           r.Symbols[i],
				B:           r.Symbols[j],
				Correlation: r.Matrix[i][j],
			})
		}
	}
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].Correlation != pairs[b].Correlation {
			return pairs[a].Correlation > pairs[b].Correlation
		}
		if pairs[a].A != pairs[b].A {
			return pairs[a].A < pairs[b].A
		}
		return pairs[a].B < pairs[b].B
	})
	if n > 0 && n < len(pairs) {
		pairs = pairs[:n]
	}
	return pairs
}

// checkSeries rejects non-finite observations and constant series. Pearson
// correlation is undefined over zero variance, which signals a data defect
// upstream rather than a presentable value.
func checkSeries(symbol string, rets []float64) error {
	constant := true
	for i, r := range rets {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return fmt.Errorf("series %s has non-finite return at row %d: %w", symbol, i, series.ErrInvalidInput)
		}
		if r != rets[0] {
			constant = false
		}
	}
	if constant && len(rets) > 1 {
		return fmt.Errorf("series %s is constant, correlation undefined: %w", symbol, series.ErrInvalidInput)
	}
	return nil
}

// clampCorr trims floating-point spill just outside [-1, 1].
func clampCorr(c float64) float64 {
	if c > 1 {
		return 1
	}
	if c < -1 {
		return -1
	}
	return c
}
