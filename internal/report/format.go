// Package report renders analysis results for the terminal and writes run
// artifacts. Formatting is pure string building; printing and logging stay
// with the caller.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/theredplanetsings/tradelab/internal/analytics"
	"github.com/theredplanetsings/tradelab/internal/backtest"
	"github.com/theredplanetsings/tradelab/internal/providers/yahoo"
	"github.com/theredplanetsings/tradelab/internal/strategy"
)

// PositionLabel renders a position as trader shorthand.
func PositionLabel(pos int) string {
	switch pos {
	case strategy.Long:
		return "Long"
	case strategy.Short:
		return "Short"
	default:
		return strconv.Itoa(pos)
	}
}

// BacktestSummary renders the headline figures of one evaluation.
func BacktestSummary(res *backtest.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Backtest %s with %s\n", res.Symbol, res.Strategy)
	fmt.Fprintf(&b, "Period: %s to %s (%d bars)\n\n",
		res.Start.Format("2006-01-02"), res.End.Format("2006-01-02"), res.Bars)

	fmt.Fprintf(&b, "  Strategy multiple:  %.6f\n", res.Performance)
	fmt.Fprintf(&b, "  Buy & hold:         %.6f\n", res.BuyHoldReturn+1)
	fmt.Fprintf(&b, "  Outperformance:     %+.6f\n", res.Outperformance)
	fmt.Fprintf(&b, "  Total return:       %+.2f%%\n", res.TotalReturn*100)
	fmt.Fprintf(&b, "  Annual volatility:  %.2f%%\n", res.AnnualVolatility*100)
	fmt.Fprintf(&b, "  Trades:             %d\n", res.Trades)
	fmt.Fprintf(&b, "  Long/short bars:    %d/%d\n", res.LongBars, res.ShortBars)
	return b.String()
}

// RecentSignals renders the last n evaluated bars, newest last.
func RecentSignals(res *backtest.Result, n int) string {
	rows := res.Rows
	if n > 0 && n < len(rows) {
		rows = rows[len(rows)-n:]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %12s %7s %12s\n", "Date", "Price", "Signal", "Strategy")
	for _, row := range rows {
		fmt.Fprintf(&b, "%-12s %12.2f %7s %12.6f\n",
			row.Time.Format("2006-01-02"), row.Price, PositionLabel(row.Position), row.CumStrategy)
	}
	return b.String()
}

// CorrelationTable renders the full matrix with symbol headers.
func CorrelationTable(res *analytics.CorrelationResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-8s", "")
	for _, symbol := range res.Symbols {
		fmt.Fprintf(&b, " %8s", symbol)
	}
	b.WriteString("\n")
	for i, symbol := range res.Symbols {
		fmt.Fprintf(&b, "%-8s", symbol)
		for j := range res.Symbols {
			fmt.Fprintf(&b, " %8.3f", res.Matrix[i][j])
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Diversification renders the low-correlation counts and partners under the
// result's threshold.
func Diversification(res *analytics.CorrelationResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Assets with |correlation| below %.2f:\n", res.Threshold)
	for _, low := range res.LowCorrelation {
		partners := "-"
		if len(low.Partners) > 0 {
			partners = strings.Join(low.Partners, ", ")
		}
		fmt.Fprintf(&b, "  %-8s %2d  %s\n", low.Symbol, low.Count, partners)
	}
	return b.String()
}

// TopPairsTable renders ranked pairs, strongest first.
func TopPairsTable(pairs []analytics.CorrelatedPair) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-18s %8s\n", "Pair", "Corr")
	for _, p := range pairs {
		fmt.Fprintf(&b, "%-18s %8.3f\n", p.A+"/"+p.B, p.Correlation)
	}
	return b.String()
}

// RiskRewardTable renders annualized figures per asset. An undefined Sharpe
// prints as n/a rather than a number.
func RiskRewardTable(res *analytics.RiskRewardResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-8s %10s %10s %8s\n", "Symbol", "Return", "Risk", "Sharpe")
	for _, a := range res.Assets {
		sharpe := "n/a"
		if a.SharpeValid {
			sharpe = fmt.Sprintf("%.2f", a.Sharpe)
		}
		fmt.Fprintf(&b, "%-8s %9.2f%% %9.2f%% %8s\n",
			a.Symbol, a.AnnualReturn*100, a.AnnualRisk*100, sharpe)
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "Best return:  %s\n", res.BestReturn)
	fmt.Fprintf(&b, "Worst return: %s\n", res.WorstReturn)
	fmt.Fprintf(&b, "Highest risk: %s\n", res.HighestRisk)
	if res.BestSharpe != "" {
		fmt.Fprintf(&b, "Best Sharpe:  %s\n", res.BestSharpe)
	}
	return b.String()
}

// OverviewTable renders delayed quotes for the market overview.
func OverviewTable(quotes []yahoo.Quote) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-8s %12s %10s %9s  %s\n", "Symbol", "Price", "Change", "Pct", "As of")
	for _, q := range quotes {
		fmt.Fprintf(&b, "%-8s %12.2f %+10.2f %+8.2f%%  %s\n",
			q.Symbol, q.Price, q.Change, q.ChangePct, q.At.Format("2006-01-02"))
	}
	return b.String()
}

// GrowthTable renders where 100 put into each asset at the start of the
// shared window ended up, best first. Assets without a usable opening price
// are skipped.
func GrowthTable(closes map[string][]float64) string {
	type growth struct {
		symbol string
		final  float64
	}
	rows := make([]growth, 0, len(closes))
	for symbol, prices := range closes {
		indexed := NormalizeTo100(prices)
		if len(indexed) == 0 {
			continue
		}
		rows = append(rows, growth{symbol: symbol, final: indexed[len(indexed)-1]})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].final != rows[j].final {
			return rows[i].final > rows[j].final
		}
		return rows[i].symbol < rows[j].symbol
	})

	var b strings.Builder
	fmt.Fprintf(&b, "%-8s %13s\n", "Symbol", "Growth of 100")
	for _, r := range rows {
		fmt.Fprintf(&b, "%-8s %13.2f\n", r.symbol, r.final)
	}
	return b.String()
}

// NormalizeTo100 rescales a price path so it starts at 100, which makes
// mixed-price assets comparable on one axis. The input is not modified.
func NormalizeTo100(prices []float64) []float64 {
	if len(prices) == 0 || prices[0] == 0 {
		return nil
	}
	out := make([]float64, len(prices))
	for i, p := range prices {
		out[i] = p / prices[0] * 100
	}
	return out
}
