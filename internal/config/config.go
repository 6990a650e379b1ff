package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"data_source"`
	Symbols []string `yaml:"symbols"`
	Cache   struct {
		Dir string `yaml:"dir"`
	} `yaml:"cache"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	User struct {
		Name            string  `yaml:"name"`
		StartingBalance float64 `yaml:"starting_balance"`
	} `yaml:"user"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides.
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
	if v := os.Getenv("QUOTESERVER_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("QUOTESERVER_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("STARTING_BALANCE"); v != "" {
		var balance float64
		if _, err := fmt.Sscanf(v, "%f", &balance); err == nil {
			cfg.User.StartingBalance = balance
		}
	}

	// Defaults
	if len(cfg.Symbols) == 0 {
		cfg.Symbols = []string{"RELIANCE.NS", "TCS.NS", "INFY.NS"}
	}
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = "data/cache"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/portfolio.db"
	}
	if cfg.Schedule.RefreshCron == "" {
		// Every 5 minutes during the session.
		cfg.Schedule.RefreshCron = "0 */5 * * * *"
	}
	if cfg.User.Name == "" {
		cfg.User.Name = "demo_user"
	}
	if cfg.User.StartingBalance == 0 {
		cfg.User.StartingBalance = 100000
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.User.Name == "" {
		return fmt.Errorf("user.name is required")
	}
	if c.User.StartingBalance <= 0 {
		return fmt.Errorf("user.starting_balance must be positive")
	}
	if c.Schedule.RefreshCron == "" {
		return fmt.Errorf("schedule.refresh_cron is required")
	}
	return nil
}
