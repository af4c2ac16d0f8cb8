package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Data struct {
		Exchanges []string `yaml:"exchanges"`
		Days      int      `yaml:"days"`
	} `yaml:"data"`
	Analysis struct {
		SurgePercent   float64 `yaml:"surge_percent"`
		SelloffPercent float64 `yaml:"selloff_percent"`
		WindowDays     int     `yaml:"window_days"`
	} `yaml:"analysis"`
	Simulation struct {
		StepPercent float64 `yaml:"step_percent"`
		MaxSteps    int     `yaml:"max_steps"`
	} `yaml:"simulation"`
	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Watch struct {
		Cron string `yaml:"cron"`
	} `yaml:"watch"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A missing file is not an error; defaults fill the gaps.
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
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("SURGESCOPE_EXCHANGES"); v != "" {
		cfg.Data.Exchanges = strings.Split(v, ",")
	}
	if v := os.Getenv("SURGESCOPE_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			cfg.Data.Days = days
		}
	}
	if v := os.Getenv("WATCH_CRON"); v != "" {
		cfg.Watch.Cron = v
	}

	// Defaults
	if len(cfg.Data.Exchanges) == 0 {
		cfg.Data.Exchanges = []string{"binance", "okx"}
	}
	if cfg.Data.Days <= 0 || cfg.Data.Days > 364 {
		cfg.Data.Days = 364
	}
	if cfg.Analysis.SurgePercent == 0 {
		cfg.Analysis.SurgePercent = 75
	}
	if cfg.Analysis.SelloffPercent == 0 {
		cfg.Analysis.SelloffPercent = 50
	}
	if cfg.Analysis.WindowDays == 0 {
		cfg.Analysis.WindowDays = 5
	}
	if cfg.Simulation.StepPercent == 0 {
		cfg.Simulation.StepPercent = 5
	}
	if cfg.Simulation.MaxSteps == 0 {
		cfg.Simulation.MaxSteps = 10000
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "out"
	}
	if cfg.Watch.Cron == "" {
		cfg.Watch.Cron = "0 0 */6 * * *"
	}

	return cfg, nil
}

// Validate checks that the loaded values are usable.
func (c *Config) Validate() error {
	if c.Analysis.SurgePercent <= 0 {
		return fmt.Errorf("analysis.surge_percent must be positive")
	}
	if c.Analysis.SelloffPercent <= 0 || c.Analysis.SelloffPercent >= 100 {
		return fmt.Errorf("analysis.selloff_percent must be in (0, 100)")
	}
	if c.Analysis.WindowDays < 1 {
		return fmt.Errorf("analysis.window_days must be at least 1")
	}
	if c.Simulation.StepPercent <= 0 {
		return fmt.Errorf("simulation.step_percent must be positive")
	}
	return nil
}

// ValidateWatch checks the extra fields the watch mode needs.
func (c *Config) ValidateWatch() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required for watch mode")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required for watch mode")
	}
	return nil
}
