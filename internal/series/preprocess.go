package series

import (
	"fmt"
	"sort"
	"time"
)

// Frame is the aligned result of preprocessing one price series: parallel
// columns over a single row index, with every column fully defined at every
// row. Rows where any requested column would be undefined (the first bar has
// no return, the first w-1 bars have no w-bar mean) are dropped up front, so
// downstream code never meets a warm-up placeholder.
type Frame struct {
	Times   []time.Time       // row timestamps, strictly increasing
	Prices  []float64         // canonical price per row
	Returns []float64         // ln(price[i] / previous close), defined at every row
	SMA     map[int][]float64 // window -> simple moving average ending at each row
	Windows []int             // requested windows, ascending, deduplicated
}

// Rows returns the number of aligned rows in the frame.
func (f *Frame) Rows() int { return len(f.Prices) }

// Prepare builds an aligned frame from a validated price series and one or
// more rolling-window lengths. The frame starts at raw index
// max(1, maxWindow-1): one bar of history for the first return, maxWindow
// bars for the widest mean. A window of 1 is legal and makes SMA(1) equal
// the price column. If no rows survive the warm-up drop, Prepare reports
// ErrInsufficientData with the observed and required lengths.
func Prepare(ps PriceSeries, windows []int) (*Frame, error) {
	if err := ps.Validate(); err != nil {
		return nil, err
	}
	ws, err := normalizeWindows(windows)
	if err != nil {
		return nil, err
	}

	maxW := ws[len(ws)-1]
	start := maxW - 1
	if start < 1 {
		start = 1
	}
	rows := len(ps) - start
	if rows < 1 {
		return nil, fmt.Errorf("%d bars leave no complete rows with window %d (need at least %d): %w",
			len(ps), maxW, start+1, ErrInsufficientData)
	}

	prices := ps.Closes()
	rets := LogReturns(prices)

	f := &Frame{
		Times:   make([]time.Time, rows),
		Prices:  make([]float64, rows),
		Returns: make([]float64, rows),
		SMA:     make(map[int][]float64, len(ws)),
		Windows: ws,
	}
	for i := 0; i < rows; i++ {
		f.Times[i] = ps[start+i].Time
		f.Prices[i] = prices[start+i]
		f.Returns[i] = rets[start+i-1]
	}
	for _, w := range ws {
		sma := rollingMean(prices, w)
		// sma[j] ends at raw index j+w-1, so the frame's first row start
		// maps to sma index start-(w-1).
		off := start - (w - 1)
		f.SMA[w] = sma[off : off+rows]
	}
	return f, nil
}

// normalizeWindows validates, deduplicates, and sorts the requested windows.
func normalizeWindows(windows []int) ([]int, error) {
	if len(windows) == 0 {
		return nil, fmt.Errorf("no rolling windows requested: %w", ErrConfig)
	}
	seen := make(map[int]bool, len(windows))
	ws := make([]int, 0, len(windows))
	for _, w := range windows {
		if w < 1 {
			return nil, fmt.Errorf("rolling window %d must be positive: %w", w, ErrConfig)
		}
		if !seen[w] {
			seen[w] = true
			ws = append(ws, w)
		}
	}
	sort.Ints(ws)
	return ws, nil
}

// rollingMean computes the w-bar simple moving average with a running sum.
// The result is defined only where the window is fully populated: out[j]
// covers values[j .. j+w-1], so it has len(values)-w+1 elements.
func rollingMean(values []float64, w int) []float64 {
	if len(values) < w {
		return nil
	}
	out := make([]float64, 0, len(values)-w+1)
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= w {
			sum -= values[i-w]
		}
		if i >= w-1 {
			out = append(out, sum/float64(w))
		}
	}
	return out
}
