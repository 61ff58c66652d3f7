package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Source struct {
		URL            string `yaml:"url" envconfig:"BOARD_SOURCE_URL"`
		File           string `yaml:"file" envconfig:"BOARD_SOURCE_FILE"`
		TimeoutSeconds int    `yaml:"timeout_seconds" envconfig:"BOARD_FETCH_TIMEOUT"`
		Proxy          string `yaml:"proxy" envconfig:"HTTPS_PROXY"`
	} `yaml:"source"`
	Refresh struct {
		IntervalSeconds int `yaml:"interval_seconds" envconfig:"BOARD_REFRESH_INTERVAL"`
	} `yaml:"refresh"`
	Trend struct {
		Mode             string `yaml:"mode" envconfig:"BOARD_TREND_MODE"`
		Lookback         int    `yaml:"lookback" envconfig:"BOARD_TREND_LOOKBACK"`
		BaselineFallback string `yaml:"baseline_fallback" envconfig:"BOARD_BASELINE_FALLBACK"`
	} `yaml:"trend"`
	Candles struct {
		Spread      float64 `yaml:"spread" envconfig:"BOARD_CANDLE_SPREAD"`
		Mode        string  `yaml:"mode" envconfig:"BOARD_CANDLE_MODE"`
		StepMinutes int     `yaml:"step_minutes" envconfig:"BOARD_CANDLE_STEP"`
	} `yaml:"candles"`
	Watchlist struct {
		Categories        []string `yaml:"categories" envconfig:"BOARD_CATEGORIES"`
		UnknownCategories string   `yaml:"unknown_categories" envconfig:"BOARD_UNKNOWN_CATEGORIES"`
	} `yaml:"watchlist"`
	Simulator struct {
		Enabled         bool  `yaml:"enabled" envconfig:"BOARD_SIMULATE"`
		IntervalSeconds int   `yaml:"interval_seconds" envconfig:"BOARD_SIMULATE_INTERVAL"`
		HistoryCap      int   `yaml:"history_cap" envconfig:"BOARD_HISTORY_CAP"`
		Seed            int64 `yaml:"seed" envconfig:"BOARD_SIMULATE_SEED"`
		WriteBack       bool  `yaml:"write_back" envconfig:"BOARD_WRITE_BACK"`
	} `yaml:"simulator"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
	} `yaml:"database"`
}

// Load reads config from a YAML file, then applies .env / environment
// variable overrides and defaults.
func Load(path string) (*Config, error) {
	// .env is optional; missing files are fine.
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variables win over the file.
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Source.URL == "" && c.Source.File == "" {
		c.Source.File = "prices.json"
	}
	if c.Source.TimeoutSeconds <= 0 {
		c.Source.TimeoutSeconds = 15
	}
	if c.Refresh.IntervalSeconds <= 0 {
		c.Refresh.IntervalSeconds = 5
	}
	if c.Trend.Mode == "" {
		c.Trend.Mode = "baseline"
	}
	if c.Trend.Lookback <= 0 {
		c.Trend.Lookback = 10
	}
	if c.Trend.BaselineFallback == "" {
		c.Trend.BaselineFallback = "first"
	}
	if c.Candles.Spread == 0 {
		c.Candles.Spread = 0.01
	}
	if c.Candles.Mode == "" {
		c.Candles.Mode = "multiplicative"
	}
	if c.Candles.StepMinutes <= 0 {
		c.Candles.StepMinutes = 60
	}
	if len(c.Watchlist.Categories) == 0 {
		c.Watchlist.Categories = []string{"Trending", "Main", "Penny Index", "MEME COINS"}
	}
	if c.Watchlist.UnknownCategories == "" {
		c.Watchlist.UnknownCategories = "append"
	}
	if c.Simulator.IntervalSeconds <= 0 {
		c.Simulator.IntervalSeconds = 30
	}
	if c.Simulator.HistoryCap <= 0 {
		c.Simulator.HistoryCap = 50
	}
}

// Validate checks that the configuration is coherent.
func (c *Config) Validate() error {
	if c.Source.URL == "" && c.Source.File == "" {
		return fmt.Errorf("source.url or source.file is required")
	}
	switch c.Trend.Mode {
	case "baseline", "lookback":
	default:
		return fmt.Errorf("trend.mode must be baseline or lookback, got %q", c.Trend.Mode)
	}
	switch c.Trend.BaselineFallback {
	case "first", "current":
	default:
		return fmt.Errorf("trend.baseline_fallback must be first or current, got %q", c.Trend.BaselineFallback)
	}
	switch c.Candles.Mode {
	case "multiplicative", "additive":
	default:
		return fmt.Errorf("candles.mode must be multiplicative or additive, got %q", c.Candles.Mode)
	}
	if c.Candles.Spread < 0 || c.Candles.Spread >= 1 {
		return fmt.Errorf("candles.spread must be in [0, 1), got %v", c.Candles.Spread)
	}
	switch c.Watchlist.UnknownCategories {
	case "omit", "append":
	default:
		return fmt.Errorf("watchlist.unknown_categories must be omit or append, got %q", c.Watchlist.UnknownCategories)
	}
	if c.Simulator.WriteBack && c.Source.File == "" {
		return fmt.Errorf("simulator.write_back requires a file source")
	}
	return nil
}
