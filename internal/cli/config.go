package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by every command: where the database
// lives, where tuning overrides live, and how often the server sweeps.
//
// Precedence, lowest to highest: built-in defaults, config file, environment
// variables (GARDEN_DB, GARDEN_BALANCE_DIR, GARDEN_SWEEP_INTERVAL,
// GARDEN_USER), command-line flags.
type Config struct {
	Database      string
	BalanceDir    string
	SweepInterval time.Duration
	User          string
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Database:      "garden.db",
		SweepInterval: 2 * time.Second,
	}
}

// rawConfig mirrors the YAML shape; durations are strings like "2s".
type rawConfig struct {
	Database      string `yaml:"database"`
	BalanceDir    string `yaml:"balance_dir"`
	SweepInterval string `yaml:"sweep_interval"`
	User          string `yaml:"user"`
}

// apply copies set fields onto cfg, leaving defaults for omitted ones.
func (r rawConfig) apply(cfg *Config) error {
	if r.Database != "" {
		cfg.Database = r.Database
	}
	if r.BalanceDir != "" {
		cfg.BalanceDir = r.BalanceDir
	}
	if r.User != "" {
		cfg.User = r.User
	}
	if r.SweepInterval != "" {
		d, err := time.ParseDuration(r.SweepInterval)
		if err != nil {
			return fmt.Errorf("parse sweep_interval: %w", err)
		}
		cfg.SweepInterval = d
	}
	return nil
}

// LoadConfig assembles the effective configuration. A .env file in the
// working directory is loaded first (missing is fine), then the YAML config
// file if path is non-empty, then environment overrides.
func LoadConfig(path string) (Config, error) {
	// Existing environment variables win over .env entries.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		var raw rawConfig
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		if err := raw.apply(&cfg); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}

	if v := os.Getenv("GARDEN_DB"); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv("GARDEN_BALANCE_DIR"); v != "" {
		cfg.BalanceDir = v
	}
	if v := os.Getenv("GARDEN_USER"); v != "" {
		cfg.User = v
	}
	if v := os.Getenv("GARDEN_SWEEP_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse GARDEN_SWEEP_INTERVAL: %w", err)
		}
		cfg.SweepInterval = d
	}

	if cfg.SweepInterval <= 0 {
		return Config{}, fmt.Errorf("sweep interval must be positive, got %s", cfg.SweepInterval)
	}

	return cfg, nil
}
