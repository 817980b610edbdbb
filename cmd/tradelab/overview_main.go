package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/theredplanetsings/tradelab/internal/providers/yahoo"
	"github.com/theredplanetsings/tradelab/internal/report"
)

// runOverview prints the latest quote for each symbol.
func runOverview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	raw, _ := cmd.Flags().GetString("symbols")
	symbols := splitSymbols(raw)

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	quotes := make([]yahoo.Quote, 0, len(symbols))
	for _, symbol := range symbols {
		quote, err := client.Quote(ctx, symbol)
		if err != nil {
			log.Warn().Str("symbol", symbol).Err(err).Msg("quote unavailable")
			continue
		}
		quotes = append(quotes, quote)
	}
	if len(quotes) == 0 {
		return fmt.Errorf("no quotes available for %v", symbols)
	}

	fmt.Println(report.OverviewTable(quotes))
	return nil
}
