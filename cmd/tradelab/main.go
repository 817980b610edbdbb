package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	appName = "tradelab"
	version = "v1.0.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Daily-bar backtesting and cross-asset analytics",
		Version: version,
		Long: `tradelab evaluates moving-average strategies against buy-and-hold on daily
bars and computes cross-asset diagnostics: correlation structure with
diversification candidates, and annualized risk/reward with Sharpe ratios.

Market data comes from the Yahoo Finance chart API. Each run fetches fresh
bars, evaluates offline, and optionally writes JSONL/markdown artifacts.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Path to YAML config (default config/tradelab.yaml when present)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("start", "", "First session to include, YYYY-MM-DD (default 5 years back)")
	rootCmd.PersistentFlags().String("end", "", "Last session to include, YYYY-MM-DD (default today)")

	backtestCmd := &cobra.Command{
		Use:   "backtest",
		Short: "Evaluate a signal strategy against buy-and-hold",
		Long: `Fetches daily bars for one symbol, generates positions, and compounds
strategy returns with the position lagged one bar against buy-and-hold.

Strategies:
  crossover  - long while SMA(short) > SMA(long)
  threshold  - long while price > SMA(window)
  weinstein  - threshold with the classic 150-day window`,
		RunE: runBacktest,
	}
	backtestCmd.Flags().String("symbol", "", "Instrument symbol (required)")
	backtestCmd.Flags().String("strategy", "crossover", "Strategy: crossover|threshold|weinstein")
	backtestCmd.Flags().Int("short", 0, "Short SMA window (default from config)")
	backtestCmd.Flags().Int("long", 0, "Long SMA window (default from config)")
	backtestCmd.Flags().Int("window", 0, "Threshold SMA window (default from config)")
	backtestCmd.Flags().Int("tail", 10, "Recent signal rows to print")
	backtestCmd.Flags().Bool("write", false, "Write JSONL and markdown artifacts")
	_ = backtestCmd.MarkFlagRequired("symbol")

	correlateCmd := &cobra.Command{
		Use:   "correlate",
		Short: "Correlation matrix and diversification candidates",
		Long: `Fetches several symbols, aligns their sessions by inner join, and builds
the Pearson correlation matrix over log returns. Assets whose absolute
correlation stays below the threshold count as diversification partners.`,
		RunE: runCorrelate,
	}
	correlateCmd.Flags().String("symbols", "", "Comma-separated symbols (at least two)")
	correlateCmd.Flags().Float64("threshold", 0.4, "Low-correlation threshold in [0,1] (config value when unset)")
	correlateCmd.Flags().Int("pairs", 5, "Top correlated pairs to list (0 disables)")
	_ = correlateCmd.MarkFlagRequired("symbols")

	riskCmd := &cobra.Command{
		Use:   "risk",
		Short: "Annualized risk/reward and Sharpe per symbol",
		Long: `Fetches several symbols and annualizes their daily simple returns:
mean times trading days, deviation times its square root, and the Sharpe
ratio where the deviation is nonzero. Also renders the growth of 100 put
into each asset over the shared window.`,
		RunE: runRisk,
	}
	riskCmd.Flags().String("symbols", "", "Comma-separated symbols")
	_ = riskCmd.MarkFlagRequired("symbols")

	overviewCmd := &cobra.Command{
		Use:   "overview",
		Short: "Delayed quotes for a market snapshot",
		RunE:  runOverview,
	}
	overviewCmd.Flags().String("symbols", "SPY,QQQ,DIA,IWM", "Comma-separated symbols")

	rootCmd.AddCommand(backtestCmd)
	rootCmd.AddCommand(correlateCmd)
	rootCmd.AddCommand(riskCmd)
	rootCmd.AddCommand(overviewCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
