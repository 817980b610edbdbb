package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theredplanetsings/tradelab/internal/analytics"
	"github.com/theredplanetsings/tradelab/internal/backtest"
	"github.com/theredplanetsings/tradelab/internal/strategy"
)

func sampleResult() *backtest.Result {
	base := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	rows := []backtest.Row{
		{Time: base, Price: 101, Return: 0.01, Position: strategy.Long, StrategyReturn: -0.01, CumBuyHold: 1.01, CumStrategy: 0.99},
		{Time: base.AddDate(0, 0, 1), Price: 103, Return: 0.02, Position: strategy.Short, StrategyReturn: 0.02, CumBuyHold: 1.03, CumStrategy: 1.01},
		{Time: base.AddDate(0, 0, 2), Price: 102, Return: -0.01, Position: strategy.Long, StrategyReturn: 0.01, CumBuyHold: 1.02, CumStrategy: 1.02},
	}
	return &backtest.Result{
		Symbol:         "NVDA",
		Strategy:       "crossover(50,200)",
		Start:          rows[0].Time,
		End:            rows[len(rows)-1].Time,
		Bars:           len(rows),
		Rows:           rows,
		Performance:    1.02,
		Outperformance: 0.0,
		TotalReturn:    0.02,
		BuyHoldReturn:  0.02,
		Trades:         2,
		LongBars:       2,
		ShortBars:      1,
	}
}

func TestPositionLabel(t *testing.T) {
	assert.Equal(t, "Long", PositionLabel(strategy.Long))
	assert.Equal(t, "Short", PositionLabel(strategy.Short))
	assert.Equal(t, "0", PositionLabel(0))
}

func TestBacktestSummary(t *testing.T) {
	out := BacktestSummary(sampleResult())

	assert.Contains(t, out, "NVDA")
	assert.Contains(t, out, "crossover(50,200)")
	assert.Contains(t, out, "1.020000")
	assert.Contains(t, out, "Trades:             2")
}

func TestRecentSignals_LimitsRows(t *testing.T) {
	res := sampleResult()

	all := RecentSignals(res, 0)
	assert.Equal(t, 4, strings.Count(all, "\n"), "header plus three rows")

	last := RecentSignals(res, 1)
	assert.Equal(t, 2, strings.Count(last, "\n"), "header plus one row")
	assert.Contains(t, last, "2024-05-08")
	assert.NotContains(t, last, "2024-05-06")
	assert.Contains(t, last, "Long")
}

func TestCorrelationTables(t *testing.T) {
	res, err := analytics.AnalyzeCorrelation(map[string][]float64{
		"AAA": {0.01, 0.02, 0.03, 0.01},
		"BBB": {0.02, 0.04, 0.06, 0.02},
		"CCC": {0.03, -0.01, 0.02, -0.02},
	}, 0.4)
	require.NoError(t, err)

	table := CorrelationTable(res)
	lines := strings.Split(strings.TrimRight(table, "\n"), "\n")
	assert.Len(t, lines, 4, "header plus one line per symbol")
	assert.Contains(t, lines[0], "AAA")
	assert.Contains(t, lines[1], "1.000")

	div := Diversification(res)
	assert.Contains(t, div, "0.40")

	pairs := TopPairsTable(res.TopPairs(2))
	assert.Contains(t, pairs, "AAA/BBB")
}

func TestRiskRewardTable_UndefinedSharpe(t *testing.T) {
	res, err := analytics.AnalyzeRiskReward(map[string][]float64{
		"FLAT": {0.01, 0.01, 0.01},
		"MOVE": {0.02, -0.01, 0.03},
	}, 252)
	require.NoError(t, err)

	out := RiskRewardTable(res)
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "FLAT") {
			assert.Contains(t, line, "n/a", "undefined Sharpe renders as n/a")
		}
	}
	assert.Contains(t, out, "Best Sharpe:  MOVE")
	assert.NotContains(t, out, "NaN")
}

func TestGrowthTable(t *testing.T) {
	out := GrowthTable(map[string][]float64{
		"AAA": {50, 55, 60},
		"BBB": {200, 210, 190},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3, "header plus one line per symbol")
	assert.Contains(t, lines[1], "AAA")
	assert.Contains(t, lines[1], "120.00")
	assert.Contains(t, lines[2], "BBB")
	assert.Contains(t, lines[2], "95.00")
}

func TestNormalizeTo100(t *testing.T) {
	got := NormalizeTo100([]float64{50, 55, 60})
	require.Len(t, got, 3)
	assert.InDelta(t, 100.0, got[0], 1e-12)
	assert.InDelta(t, 110.0, got[1], 1e-12)
	assert.InDelta(t, 120.0, got[2], 1e-12)

	assert.Nil(t, NormalizeTo100(nil))
}
