package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"TrendSentinel/internal/calculator"
	"TrendSentinel/internal/model"
	"TrendSentinel/internal/trend"
)

// Instrument is one entry of the scan universe.
type Instrument struct {
	Symbol   string `yaml:"symbol"`
	Sector   string `yaml:"sector"`
	Industry string `yaml:"industry"`
}

// Classification returns the configured grouping of the instrument.
func (i Instrument) Classification() model.Classification {
	return model.Classification{Sector: i.Sector, Industry: i.Industry}
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL     string `yaml:"base_url"`
		APIKey      string `yaml:"api_key"`
		Benchmark   string `yaml:"benchmark"`
		HistoryDays int    `yaml:"history_days"`
	} `yaml:"data_source"`
	Universe []Instrument `yaml:"universe"`
	Analysis struct {
		WeekEnding        string  `yaml:"week_ending"`
		RSLookbackMonths  int     `yaml:"rs_lookback_months"`
		RangeDays         int     `yaml:"range_days"`
		RangeMinBars      int     `yaml:"range_min_bars"`
		VolumeWindow      int     `yaml:"volume_window"`
		VolumeSpikeFactor float64 `yaml:"volume_spike_factor"`
	} `yaml:"analysis"`
	Scan struct {
		Workers int `yaml:"workers"`
	} `yaml:"scan"`
	Schedule struct {
		ScanCron   string `yaml:"scan_cron"`
		ReportCron string `yaml:"report_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Metrics struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"metrics"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error; defaults and environment still apply.
func Load(path string) (*Config, error) {
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

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("BENCHMARK_SYMBOL"); v != "" {
		cfg.DataSource.Benchmark = v
	}
	if v := os.Getenv("UNIVERSE"); v != "" {
		cfg.Universe = parseUniverse(v)
	}
	if v := os.Getenv("RS_LOOKBACK_MONTHS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.RSLookbackMonths = n
		}
	}
	if v := os.Getenv("SCAN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scan.Workers = n
		}
	}
	if v := os.Getenv("CRON_SCAN"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.ListenAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.DataSource.Benchmark == "" {
		cfg.DataSource.Benchmark = "SPY"
	}
	if cfg.DataSource.HistoryDays == 0 {
		cfg.DataSource.HistoryDays = 730
	}
	if cfg.Analysis.WeekEnding == "" {
		cfg.Analysis.WeekEnding = "friday"
	}
	if cfg.Analysis.RSLookbackMonths == 0 {
		cfg.Analysis.RSLookbackMonths = calculator.DefaultRelativeStrengthMonths
	}
	if cfg.Analysis.RangeDays == 0 {
		cfg.Analysis.RangeDays = trend.DefaultRangeDays
	}
	if cfg.Analysis.RangeMinBars == 0 {
		cfg.Analysis.RangeMinBars = trend.DefaultRangeMinBars
	}
	if cfg.Analysis.VolumeWindow == 0 {
		cfg.Analysis.VolumeWindow = trend.DefaultVolumeWindow
	}
	if cfg.Analysis.VolumeSpikeFactor == 0 {
		cfg.Analysis.VolumeSpikeFactor = trend.DefaultVolumeSpikeFactor
	}
	if cfg.Scan.Workers == 0 {
		cfg.Scan.Workers = 4
	}
	if cfg.Schedule.ScanCron == "" {
		cfg.Schedule.ScanCron = "0 30 22 * * 1-5"
	}
	if cfg.Schedule.ReportCron == "" {
		cfg.Schedule.ReportCron = "0 0 8 * * 6"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/trend_sentinel.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// parseUniverse reads "SYM:Sector:Industry,SYM2" lists.
func parseUniverse(v string) []Instrument {
	var out []Instrument
	for _, item := range strings.Split(v, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), ":", 3)
		if parts[0] == "" {
			continue
		}
		in := Instrument{Symbol: parts[0]}
		if len(parts) > 1 {
			in.Sector = parts[1]
		}
		if len(parts) > 2 {
			in.Industry = parts[2]
		}
		out = append(out, in)
	}
	return out
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if len(c.Universe) == 0 {
		return fmt.Errorf("universe must list at least one symbol")
	}
	seen := make(map[string]bool, len(c.Universe))
	for i, in := range c.Universe {
		if in.Symbol == "" {
			return fmt.Errorf("universe[%d].symbol is required", i)
		}
		if seen[in.Symbol] {
			return fmt.Errorf("universe: duplicate symbol %s", in.Symbol)
		}
		seen[in.Symbol] = true
	}
	if _, err := calculator.ParseWeekday(c.Analysis.WeekEnding); err != nil {
		return fmt.Errorf("analysis.week_ending: %w", err)
	}
	if c.Analysis.RSLookbackMonths < 0 {
		return fmt.Errorf("analysis.rs_lookback_months must be positive")
	}
	if c.Analysis.VolumeSpikeFactor < 0 {
		return fmt.Errorf("analysis.volume_spike_factor must be positive")
	}
	if c.Scan.Workers < 0 {
		return fmt.Errorf("scan.workers must be positive")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// TrendOptions converts the analysis section into snapshot builder options.
func (c *Config) TrendOptions() (trend.Options, error) {
	day, err := calculator.ParseWeekday(c.Analysis.WeekEnding)
	if err != nil {
		return trend.Options{}, err
	}
	return trend.Options{
		RelativeStrengthMonths: c.Analysis.RSLookbackMonths,
		RangeDays:              c.Analysis.RangeDays,
		RangeMinBars:           c.Analysis.RangeMinBars,
		VolumeWindow:           c.Analysis.VolumeWindow,
		VolumeSpikeFactor:      c.Analysis.VolumeSpikeFactor,
	}.WithWeekEnding(day), nil
}

// Symbols returns the universe symbols in configured order.
func (c *Config) Symbols() []string {
	out := make([]string, len(c.Universe))
	for i, in := range c.Universe {
		out[i] = in.Symbol
	}
	return out
}

// Classifications maps each universe symbol to its configured grouping.
func (c *Config) Classifications() map[string]model.Classification {
	out := make(map[string]model.Classification, len(c.Universe))
	for _, in := range c.Universe {
		out[in.Symbol] = in.Classification()
	}
	return out
}
