// Package backtest evaluates signal generators against buy-and-hold over an
// aligned frame. The position is lagged exactly one bar before it earns
// returns, which keeps look-ahead out of every comparison.
package backtest

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/theredplanetsings/tradelab/internal/series"
	"github.com/theredplanetsings/tradelab/internal/strategy"
)

// EvaluatorConfig holds evaluation parameters.
type EvaluatorConfig struct {
	TradingDays int `yaml:"trading_days"` // trading days per year for annualization
}

// DefaultEvaluatorConfig returns the standard daily-bar configuration.
func DefaultEvaluatorConfig() EvaluatorConfig {
	return EvaluatorConfig{TradingDays: 252}
}

// Evaluator runs generators over frames and summarizes the outcome.
type Evaluator struct {
	config EvaluatorConfig
}

// NewEvaluator creates an evaluator, filling zero config fields with
// defaults.
func NewEvaluator(config EvaluatorConfig) *Evaluator {
	if config.TradingDays <= 0 {
		config.TradingDays = DefaultEvaluatorConfig().TradingDays
	}
	return &Evaluator{config: config}
}

// Evaluate walks the frame once. The first frame row only seeds the lag: it
// decides the stance for the following bar and is dropped from the results.
// Fewer than two evaluated rows cannot compare two compounding paths and
// report ErrInsufficientData.
func (e *Evaluator) Evaluate(symbol string, f *series.Frame, gen strategy.Generator) (*Result, error) {
	if f == nil || f.Rows() == 0 {
		return nil, fmt.Errorf("empty frame: %w", series.ErrInvalidInput)
	}
	positions, err := gen.Positions(f)
	if err != nil {
		return nil, err
	}
	if f.Rows() < 3 {
		return nil, fmt.Errorf("%d aligned rows leave fewer than 2 to evaluate: %w",
			f.Rows(), series.ErrInsufficientData)
	}

	res := &Result{
		Symbol:   symbol,
		Strategy: gen.Name(),
		Start:    f.Times[1],
		End:      f.Times[f.Rows()-1],
		Bars:     f.Rows() - 1,
		Rows:     make([]Row, 0, f.Rows()-1),
	}

	stratReturns := make([]float64, 0, f.Rows()-1)
	cumBuyHold, cumStrategy := 0.0, 0.0
	for i := 1; i < f.Rows(); i++ {
		held := positions[i-1]
		stratReturn := f.Returns[i] * float64(held)
		cumBuyHold += f.Returns[i]
		cumStrategy += stratReturn
		stratReturns = append(stratReturns, stratReturn)

		if held == strategy.Long {
			res.LongBars++
		} else {
			res.ShortBars++
		}
		if positions[i] != positions[i-1] {
			res.Trades++
		}

		res.Rows = append(res.Rows, Row{
			Time:           f.Times[i],
			Price:          f.Prices[i],
			Return:         f.Returns[i],
			Position:       positions[i],
			StrategyReturn: stratReturn,
			CumBuyHold:     math.Exp(cumBuyHold),
			CumStrategy:    math.Exp(cumStrategy),
		})
	}

	last := res.Rows[len(res.Rows)-1]
	res.Performance = round6(last.CumStrategy)
	res.Outperformance = round6(last.CumStrategy - last.CumBuyHold)
	res.TotalReturn = res.Performance - 1
	res.BuyHoldReturn = round6(last.CumBuyHold) - 1
	res.AnnualVolatility = stat.StdDev(stratReturns, nil) * math.Sqrt(float64(e.config.TradingDays))
	return res, nil
}

// round6 rounds to 6 decimal places, half away from zero. Applied once, at
// the result boundary.
func round6(x float64) float64 {
	return math.Round(x*1e6) / 1e6
}
