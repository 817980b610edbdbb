package main

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theredplanetsings/tradelab/internal/series"
)

func rangeCmd() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Flags().String("start", "", "")
	cmd.Flags().String("end", "", "")
	return cmd
}

func TestFloatFlagOr(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().Float64("threshold", 0.4, "")

	assert.InDelta(t, 0.25, floatFlagOr(cmd, "threshold", 0.25), 1e-12,
		"unset flag yields the fallback")

	require.NoError(t, cmd.Flags().Set("threshold", "-0.5"))
	assert.InDelta(t, -0.5, floatFlagOr(cmd, "threshold", 0.25), 1e-12,
		"an explicit value wins even when out of range")
}

func TestParseRange_InclusiveEnd(t *testing.T) {
	cmd := rangeCmd()
	require.NoError(t, cmd.Flags().Set("start", "2024-01-02"))
	require.NoError(t, cmd.Flags().Set("end", "2024-03-01"))

	start, end, err := parseRange(cmd)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), end,
		"named end session stays inside the half-open range")
}

func TestParseRange_DefaultLookback(t *testing.T) {
	start, end, err := parseRange(rangeCmd())
	require.NoError(t, err)
	assert.InDelta(t, 5*365.25, end.Sub(start).Hours()/24, 2, "five calendar years back")
}

func TestParseRange_RejectsBadInput(t *testing.T) {
	cmd := rangeCmd()
	require.NoError(t, cmd.Flags().Set("start", "2024-05-01"))
	require.NoError(t, cmd.Flags().Set("end", "2024-04-01"))
	_, _, err := parseRange(cmd)
	assert.ErrorIs(t, err, series.ErrConfig, "end before start leaves an empty range")

	cmd = rangeCmd()
	require.NoError(t, cmd.Flags().Set("end", "01/02/2024"))
	_, _, err = parseRange(cmd)
	assert.Error(t, err)
}

func TestSplitSymbols(t *testing.T) {
	got := splitSymbols(" spy, qqq ,SPY,, dia ")
	assert.Equal(t, []string{"SPY", "QQQ", "DIA"}, got)

	assert.Empty(t, splitSymbols(" , ,"))
}
