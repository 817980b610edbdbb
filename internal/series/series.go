// Package series holds the time-series primitives shared by the strategy,
// backtest, and analytics packages: validated daily price series, log and
// simple returns, rolling means, and the aligned frame they are joined into.
package series

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// PricePoint is one daily observation of an instrument's canonical price.
// Which raw field is canonical (adjusted close vs close) is resolved by the
// data provider before a PricePoint is built.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Close float64   `json:"close"`
}

// PriceSeries is an ordered daily price history, oldest first.
type PriceSeries []PricePoint

// Validate checks the structural invariants of a price series: it must be
// non-empty, strictly increasing in time, and strictly positive in price.
func (ps PriceSeries) Validate() error {
	if len(ps) == 0 {
		return fmt.Errorf("empty price series: %w", ErrInvalidInput)
	}
	for i, p := range ps {
		if p.Close <= 0 || math.IsNaN(p.Close) || math.IsInf(p.Close, 0) {
			return fmt.Errorf("price %v at index %d: %w", p.Close, i, ErrInvalidInput)
		}
		if i > 0 && !p.Time.After(ps[i-1].Time) {
			return fmt.Errorf("timestamp %s at index %d not after %s: %w",
				p.Time.Format(time.RFC3339), i, ps[i-1].Time.Format(time.RFC3339), ErrInvalidInput)
		}
	}
	return nil
}

// Closes returns the price column as a bare slice.
func (ps PriceSeries) Closes() []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = p.Close
	}
	return out
}

// Align inner-joins several price series on their timestamps. Only instants
// present in every non-empty series survive; missing timestamps are dropped,
// never forward-filled. Symbols with no bars at all are omitted from the
// result, so callers can see which assets survived via the returned map keys.
func Align(bySymbol map[string]PriceSeries) ([]time.Time, map[string][]float64, error) {
	type symbolBars struct {
		symbol string
		closes map[int64]float64
	}

	kept := make([]symbolBars, 0, len(bySymbol))
	for symbol, ps := range bySymbol {
		if len(ps) == 0 {
			continue
		}
		if err := ps.Validate(); err != nil {
			return nil, nil, fmt.Errorf("series %s: %w", symbol, err)
		}
		closes := make(map[int64]float64, len(ps))
		for _, p := range ps {
			closes[p.Time.Unix()] = p.Close
		}
		kept = append(kept, symbolBars{symbol: symbol, closes: closes})
	}
	if len(kept) == 0 {
		return nil, map[string][]float64{}, nil
	}

	// Count how many series carry each instant; the intersection keeps the
	// instants seen by all of them.
	counts := make(map[int64]int)
	for _, sb := range kept {
		for ts := range sb.closes {
			counts[ts]++
		}
	}
	shared := make([]int64, 0, len(counts))
	for ts, n := range counts {
		if n == len(kept) {
			shared = append(shared, ts)
		}
	}
	sort.Slice(shared, func(i, j int) bool { return shared[i] < shared[j] })

	times := make([]time.Time, len(shared))
	for i, ts := range shared {
		times[i] = time.Unix(ts, 0).UTC()
	}
	closes := make(map[string][]float64, len(kept))
	for _, sb := range kept {
		col := make([]float64, len(shared))
		for i, ts := range shared {
			col[i] = sb.closes[ts]
		}
		closes[sb.symbol] = col
	}
	return times, closes, nil
}
