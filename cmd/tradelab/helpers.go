package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/theredplanetsings/tradelab/internal/config"
	"github.com/theredplanetsings/tradelab/internal/providers/yahoo"
	"github.com/theredplanetsings/tradelab/internal/series"
)

const dateLayout = "2006-01-02"

// loadConfig resolves the effective configuration: an explicit --config path
// must load, the default path may be absent.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return config.Load(path)
	}
	return config.LoadDefault()
}

// newClient builds the market data client with CLI logging attached.
func newClient(cfg *config.Config) (*yahoo.Client, error) {
	client, err := yahoo.NewClient(cfg.Provider)
	if err != nil {
		return nil, err
	}
	client.SetLogger(log.Logger)
	return client, nil
}

// floatFlagOr returns the named float flag when it was set on the command
// line, otherwise the fallback. Explicit values pass through unclamped,
// out of range included.
func floatFlagOr(cmd *cobra.Command, name string, fallback float64) float64 {
	if !cmd.Flags().Changed(name) {
		return fallback
	}
	value, _ := cmd.Flags().GetFloat64(name)
	return value
}

// parseRange turns the --start/--end flags into the half-open fetch range.
// Both flags name sessions inclusively; the provider's exclusive end gets
// one extra day so the named end session is part of the result.
func parseRange(cmd *cobra.Command) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	end := now
	if endStr, _ := cmd.Flags().GetString("end"); endStr != "" {
		day, err := time.Parse(dateLayout, endStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse --end %q: %w", endStr, err)
		}
		end = day.AddDate(0, 0, 1)
	}

	start := end.AddDate(-5, 0, 0)
	if startStr, _ := cmd.Flags().GetString("start"); startStr != "" {
		day, err := time.Parse(dateLayout, startStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse --start %q: %w", startStr, err)
		}
		start = day
	}

	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("range %s to %s is empty: %w",
			start.Format(dateLayout), end.Format(dateLayout), series.ErrConfig)
	}
	return start, end, nil
}

// splitSymbols normalizes a comma-separated symbol list, uppercased and
// deduplicated with order preserved.
func splitSymbols(raw string) []string {
	seen := make(map[string]bool)
	var symbols []string
	for _, part := range strings.Split(raw, ",") {
		symbol := strings.ToUpper(strings.TrimSpace(part))
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true
		symbols = append(symbols, symbol)
	}
	return symbols
}

// fetchBatch fetches every symbol, logs the casualties, and returns the
// survivors.
func fetchBatch(ctx context.Context, client *yahoo.Client, symbols []string, start, end time.Time) (map[string]series.PriceSeries, error) {
	bySymbol, failures := client.DailyHistoryBatch(ctx, symbols, start, end)
	for symbol, err := range failures {
		log.Warn().Err(err).Str("symbol", symbol).Msg("dropping symbol")
	}
	if len(bySymbol) == 0 {
		return nil, fmt.Errorf("no symbol returned data: %w", series.ErrInsufficientData)
	}
	return bySymbol, nil
}
