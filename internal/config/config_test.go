package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theredplanetsings/tradelab/internal/series"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tradelab.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
backtest:
  short_window: 20
  long_window: 100
analytics:
  low_corr_threshold: 0.25
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Backtest.ShortWindow)
	assert.Equal(t, 100, cfg.Backtest.LongWindow)
	assert.InDelta(t, 0.25, cfg.Analytics.LowCorrThreshold, 1e-12)

	// Everything the file does not name stays at its default.
	assert.Equal(t, 150, cfg.Backtest.ThresholdWindow)
	assert.Equal(t, 252, cfg.Analytics.TradingDays)
	assert.Equal(t, "https://query1.finance.yahoo.com", cfg.Provider.BaseURL)
	assert.Equal(t, filepath.Join("out", "reports"), cfg.Report.OutputDir)
}

func TestLoad_RejectsBadBounds(t *testing.T) {
	cases := map[string]string{
		"inverted windows": `
backtest:
  short_window: 200
  long_window: 50
`,
		"threshold above one": `
analytics:
  low_corr_threshold: 1.5
`,
		"zero trading days": `
analytics:
  trading_days: 0
`,
		"negative concurrency": `
provider:
  max_concurrent: -4
`,
		"negative timeout": `
provider:
  timeout_sec: -1
`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.ErrorIs(t, err, series.ErrConfig)
		})
	}
}

func TestLoad_PriceFieldsPassThrough(t *testing.T) {
	// Field names are validated where the client is built, not here.
	cfg, err := Load(writeConfig(t, `
provider:
  price_fields: [close]
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"close"}, cfg.Provider.PriceFields)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDefault_FallsBackWhenAbsent(t *testing.T) {
	// The test working directory carries no config/tradelab.yaml.
	cfg, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestDefaultConfig_IsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().validate())
	assert.Equal(t, filepath.Join("config", "tradelab.yaml"), GetDefaultConfigPath())
}
