package analytics

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/theredplanetsings/tradelab/internal/series"
)

// DefaultTradingDays is the annualization basis for daily bars.
const DefaultTradingDays = 252

// RiskReward is the annualized profile of one asset. Sharpe divides annual
// return by annual risk; when the return series has zero variance the ratio
// is undefined and SharpeValid is false, with Sharpe pinned to 0 so that
// NaN never leaves the package.
type RiskReward struct {
	Symbol       string  `json:"symbol"`
	AnnualReturn float64 `json:"annual_return"` // mean daily simple return times trading days
	AnnualRisk   float64 `json:"annual_risk"`   // daily sample std times sqrt of trading days
	Sharpe       float64 `json:"sharpe"`
	SharpeValid  bool    `json:"sharpe_valid"`
}

// RiskRewardResult summarizes every asset plus the extremes used in
// reports. BestSharpe is empty when no asset has a defined ratio.
type RiskRewardResult struct {
	Assets      []RiskReward `json:"assets"` // sorted by symbol
	TradingDays int          `json:"trading_days"`
	BestReturn  string       `json:"best_return"`
	WorstReturn string       `json:"worst_return"`
	HighestRisk string       `json:"highest_risk"`
	BestSharpe  string       `json:"best_sharpe,omitempty"`
}

// AnalyzeRiskReward annualizes daily simple returns per asset. Assets with
// no observations are dropped; an asset with a single observation has no
// sample deviation and reports ErrInsufficientData. Series need not share
// one index here, the statistics are per asset.
func AnalyzeRiskReward(returns map[string][]float64, tradingDays int) (*RiskRewardResult, error) {
	if tradingDays < 1 {
		return nil, fmt.Errorf("trading days %d must be positive: %w", tradingDays, series.ErrConfig)
	}

	symbols := make([]string, 0, len(returns))
	for symbol, rets := range returns {
		if len(rets) == 0 {
			continue
		}
		symbols = append(symbols, symbol)
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no return series supplied: %w", series.ErrInvalidInput)
	}
	sort.Strings(symbols)

	res := &RiskRewardResult{
		Assets:      make([]RiskReward, 0, len(symbols)),
		TradingDays: tradingDays,
	}
	for _, symbol := range symbols {
		rets := returns[symbol]
		if len(rets) < 2 {
			return nil, fmt.Errorf("series %s has %d returns, sample deviation needs 2: %w",
				symbol, len(rets), series.ErrInsufficientData)
		}
		for i, r := range rets {
			if math.IsNaN(r) || math.IsInf(r, 0) {
				return nil, fmt.Errorf("series %s has non-finite return at row %d: %w",
					symbol, i, series.ErrInvalidInput)
			}
		}

		rr := RiskReward{
			Symbol:       symbol,
			AnnualReturn: stat.Mean(rets, nil) * float64(tradingDays),
			AnnualRisk:   stat.StdDev(rets, nil) * math.Sqrt(float64(tradingDays)),
		}
		if rr.AnnualRisk > 0 {
			rr.Sharpe = rr.AnnualReturn / rr.AnnualRisk
			rr.SharpeValid = true
		}
		res.Assets = append(res.Assets, rr)
	}

	res.fillExtremes()
	return res, nil
}

// fillExtremes picks the report headliners. Ties keep the first symbol in
// sorted order; assets without a defined Sharpe never win BestSharpe.
func (r *RiskRewardResult) fillExtremes() {
	first := r.Assets[0]
	bestRet, worstRet, highRisk := first, first, first
	var bestSharpe *RiskReward
	for i := range r.Assets {
		a := r.Assets[i]
		if a.AnnualReturn > bestRet.AnnualReturn {
			bestRet = a
		}
		if a.AnnualReturn < worstRet.AnnualReturn {
			worstRet = a
		}
		if a.AnnualRisk > highRisk.AnnualRisk {
			highRisk = a
		}
		if a.SharpeValid && (bestSharpe == nil || a.Sharpe > bestSharpe.Sharpe) {
			bestSharpe = &r.Assets[i]
		}
	}
	r.BestReturn = bestRet.Symbol
	r.WorstReturn = worstRet.Symbol
	r.HighestRisk = highRisk.Symbol
	if bestSharpe != nil {
		r.BestSharpe = bestSharpe.Symbol
	}
}
