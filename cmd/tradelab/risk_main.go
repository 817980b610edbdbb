package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/theredplanetsings/tradelab/internal/analytics"
	"github.com/theredplanetsings/tradelab/internal/report"
	"github.com/theredplanetsings/tradelab/internal/series"
)

// runRisk ranks a basket of symbols by annualized return, risk, and Sharpe.
func runRisk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	raw, _ := cmd.Flags().GetString("symbols")
	symbols := splitSymbols(raw)
	if len(symbols) == 0 {
		return fmt.Errorf("no symbols supplied: %w", series.ErrConfig)
	}
	start, end, err := parseRange(cmd)
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	log.Info().Strs("symbols", symbols).Int("trading_days", cfg.Analytics.TradingDays).
		Msg("starting risk/reward scan")

	bySymbol, err := fetchBatch(ctx, client, symbols, start, end)
	if err != nil {
		return err
	}
	_, closes, err := series.Align(bySymbol)
	if err != nil {
		return err
	}

	returns := make(map[string][]float64, len(closes))
	for symbol, prices := range closes {
		returns[symbol] = series.SimpleReturns(prices)
	}

	res, err := analytics.AnalyzeRiskReward(returns, cfg.Analytics.TradingDays)
	if err != nil {
		return err
	}

	fmt.Println(report.RiskRewardTable(res))
	fmt.Println(report.GrowthTable(closes))

	log.Info().Int("assets", len(res.Assets)).Msg("risk/reward scan complete")
	return nil
}
