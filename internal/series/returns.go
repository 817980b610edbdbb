package series

import "math"

// LogReturns returns the continuously compounded daily returns of prices.
// The result has one fewer element than the input: out[i] is
// ln(prices[i+1] / prices[i]), the return realized at bar i+1. Log returns
// are the compounding currency of the engine because they sum across time.
func LogReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	out := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		out[i-1] = math.Log(prices[i] / prices[i-1])
	}
	return out
}

// SimpleReturns returns the daily percentage changes of prices. The result
// has one fewer element than the input: out[i] is prices[i+1]/prices[i] - 1.
// Simple returns feed the annualized risk/reward summary, where arithmetic
// means are the convention.
func SimpleReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	out := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		out[i-1] = prices[i]/prices[i-1] - 1
	}
	return out
}
