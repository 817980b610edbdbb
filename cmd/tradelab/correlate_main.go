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

// runCorrelate builds a pairwise correlation matrix over a basket of symbols.
func runCorrelate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	raw, _ := cmd.Flags().GetString("symbols")
	threshold := floatFlagOr(cmd, "threshold", cfg.Analytics.LowCorrThreshold)
	pairs, _ := cmd.Flags().GetInt("pairs")

	symbols := splitSymbols(raw)
	if len(symbols) < 2 {
		return fmt.Errorf("correlation needs at least two symbols: %w", series.ErrConfig)
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

	log.Info().Strs("symbols", symbols).Float64("threshold", threshold).Msg("starting correlation scan")

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
		returns[symbol] = series.LogReturns(prices)
	}

	res, err := analytics.AnalyzeCorrelation(returns, threshold)
	if err != nil {
		return err
	}

	fmt.Println(report.CorrelationTable(res))
	fmt.Println(report.Diversification(res))
	if pairs > 0 {
		fmt.Println(report.TopPairsTable(res.TopPairs(pairs)))
	}

	log.Info().Int("assets", len(res.Symbols)).Msg("correlation scan complete")
	return nil
}
