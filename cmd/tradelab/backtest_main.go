package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/theredplanetsings/tradelab/internal/backtest"
	"github.com/theredplanetsings/tradelab/internal/config"
	"github.com/theredplanetsings/tradelab/internal/report"
	"github.com/theredplanetsings/tradelab/internal/series"
	"github.com/theredplanetsings/tradelab/internal/strategy"
)

// runBacktest evaluates one strategy on one symbol.
func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	symbol, _ := cmd.Flags().GetString("symbol")
	tail, _ := cmd.Flags().GetInt("tail")
	write, _ := cmd.Flags().GetBool("write")

	gen, err := buildGenerator(cmd, cfg)
	if err != nil {
		return err
	}
	start, end, err := parseRange(cmd)
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	log.Info().Str("symbol", symbol).Str("strategy", gen.Name()).
		Str("start", start.Format(dateLayout)).Str("end", end.Format(dateLayout)).
		Msg("starting backtest")

	ps, err := client.DailyHistory(ctx, symbol, start, end)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", symbol, err)
	}

	frame, err := series.Prepare(ps, gen.Windows())
	if err != nil {
		return err
	}
	evaluator := backtest.NewEvaluator(backtest.EvaluatorConfig{TradingDays: cfg.Analytics.TradingDays})
	res, err := evaluator.Evaluate(symbol, frame, gen)
	if err != nil {
		return err
	}

	fmt.Println(report.BacktestSummary(res))
	if tail != 0 {
		fmt.Println(report.RecentSignals(res, tail))
	}

	if write {
		writer := report.NewWriter(cfg.Report.OutputDir)
		if err := writer.WriteBacktest(res); err != nil {
			return fmt.Errorf("write artifacts: %w", err)
		}
		log.Info().Str("dir", writer.OutputDir()).Str("run_id", writer.RunID()).Msg("artifacts written")
	}

	log.Info().Int("bars", res.Bars).Float64("performance", res.Performance).
		Float64("outperformance", res.Outperformance).Msg("backtest complete")
	return nil
}

// buildGenerator maps the strategy flag onto a generator, with windows
// falling back to the configured defaults.
func buildGenerator(cmd *cobra.Command, cfg *config.Config) (strategy.Generator, error) {
	name, _ := cmd.Flags().GetString("strategy")
	short, _ := cmd.Flags().GetInt("short")
	long, _ := cmd.Flags().GetInt("long")
	window, _ := cmd.Flags().GetInt("window")

	if short == 0 {
		short = cfg.Backtest.ShortWindow
	}
	if long == 0 {
		long = cfg.Backtest.LongWindow
	}
	if window == 0 {
		window = cfg.Backtest.ThresholdWindow
	}

	switch name {
	case "crossover":
		return strategy.NewDualMACrossover(short, long)
	case "threshold":
		return strategy.NewThresholdCrossover(window)
	case "weinstein":
		// The Weinstein gauge is fixed at 150 daily bars.
		return strategy.NewThresholdCrossover(150)
	default:
		return nil, fmt.Errorf("unknown strategy %q (want crossover, threshold, or weinstein): %w",
			name, series.ErrConfig)
	}
}
