// Package config loads the engine configuration from YAML, filling missing
// fields from defaults and enforcing the same parameter bounds the analysis
// packages check at their own boundaries.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/theredplanetsings/tradelab/internal/analytics"
	"github.com/theredplanetsings/tradelab/internal/providers/yahoo"
	"github.com/theredplanetsings/tradelab/internal/series"
)

// Config is the root configuration for the CLI.
type Config struct {
	Provider  yahoo.Config    `yaml:"provider"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Backtest  BacktestConfig  `yaml:"backtest"`
	Report    ReportConfig    `yaml:"report"`
}

// AnalyticsConfig sets the cross-asset diagnostics parameters.
type AnalyticsConfig struct {
	TradingDays      int     `yaml:"trading_days"`
	LowCorrThreshold float64 `yaml:"low_corr_threshold"`
}

// BacktestConfig sets the default strategy windows.
type BacktestConfig struct {
	ShortWindow     int `yaml:"short_window"`
	LongWindow      int `yaml:"long_window"`
	ThresholdWindow int `yaml:"threshold_window"` // single-average gauge, 150 by convention
}

// ReportConfig sets artifact output.
type ReportConfig struct {
	OutputDir string `yaml:"output_dir"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider: yahoo.DefaultConfig(),
		Analytics: AnalyticsConfig{
			TradingDays:      analytics.DefaultTradingDays,
			LowCorrThreshold: analytics.DefaultLowCorrThreshold,
		},
		Backtest: BacktestConfig{
			ShortWindow:     50,
			LongWindow:      200,
			ThresholdWindow: 150,
		},
		Report: ReportConfig{
			OutputDir: filepath.Join("out", "reports"),
		},
	}
}

// Load reads a YAML configuration file over the defaults, so partial files
// only override what they name. The merged result is validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return config, nil
}

// LoadDefault loads the default config path. A missing file is not an
// error; the built-in defaults apply.
func LoadDefault() (*Config, error) {
	cfg, err := Load(GetDefaultConfigPath())
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// validate enforces parameter bounds before any data is fetched.
func (c *Config) validate() error {
	if c.Analytics.TradingDays < 1 {
		return fmt.Errorf("analytics.trading_days %d must be positive: %w",
			c.Analytics.TradingDays, series.ErrConfig)
	}
	if c.Analytics.LowCorrThreshold < 0 || c.Analytics.LowCorrThreshold > 1 {
		return fmt.Errorf("analytics.low_corr_threshold %v outside [0, 1]: %w",
			c.Analytics.LowCorrThreshold, series.ErrConfig)
	}
	if c.Backtest.ShortWindow < 1 || c.Backtest.LongWindow < 1 || c.Backtest.ThresholdWindow < 1 {
		return fmt.Errorf("backtest windows %d/%d/%d must be positive: %w",
			c.Backtest.ShortWindow, c.Backtest.LongWindow, c.Backtest.ThresholdWindow, series.ErrConfig)
	}
	if c.Backtest.ShortWindow >= c.Backtest.LongWindow {
		return fmt.Errorf("backtest.short_window %d must be below long_window %d: %w",
			c.Backtest.ShortWindow, c.Backtest.LongWindow, series.ErrConfig)
	}
	if c.Provider.RequestsPerSec < 0 || c.Provider.Burst < 0 {
		return fmt.Errorf("provider rate %v/%d must not be negative: %w",
			c.Provider.RequestsPerSec, c.Provider.Burst, series.ErrConfig)
	}
	if c.Provider.TimeoutSec < 0 || c.Provider.MaxConcurrent < 0 {
		return fmt.Errorf("provider timeout/concurrency %d/%d must not be negative: %w",
			c.Provider.TimeoutSec, c.Provider.MaxConcurrent, series.ErrConfig)
	}
	if c.Report.OutputDir == "" {
		return fmt.Errorf("report.output_dir must not be empty: %w", series.ErrConfig)
	}
	return nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join("config", "tradelab.yaml")
}
