// Package config loads portal configuration from an optional YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the tunable settings of the record store and portal.
type Config struct {
	DataDir     string
	LockTimeout time.Duration
	ReadRetries int
	RetryBase   time.Duration
	LogLevel    string
}

// fileConfig is the on-disk YAML shape; durations are strings so the file
// can say "10s" or "250ms".
type fileConfig struct {
	DataDir     string `yaml:"data_dir"`
	LockTimeout string `yaml:"lock_timeout"`
	ReadRetries *int   `yaml:"read_retries"`
	RetryBase   string `yaml:"retry_base"`
	LogLevel    string `yaml:"log_level"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() Config {
	return Config{
		DataDir:     "data",
		LockTimeout: 10 * time.Second,
		ReadRetries: 3,
		RetryBase:   20 * time.Millisecond,
		LogLevel:    "info",
	}
}

// Load reads the YAML file at path (skipped when path is empty or the file
// does not exist), then applies NEXTCLASS_* environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Optional file; fall through to env overrides.
		case err != nil:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		default:
			var fc fileConfig
			if err := yaml.Unmarshal(data, &fc); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
			if err := cfg.apply(fc); err != nil {
				return Config{}, fmt.Errorf("config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.validate()
}

func (c *Config) apply(fc fileConfig) error {
	if fc.DataDir != "" {
		c.DataDir = fc.DataDir
	}
	if fc.LockTimeout != "" {
		d, err := time.ParseDuration(fc.LockTimeout)
		if err != nil {
			return fmt.Errorf("invalid lock_timeout %q: %w", fc.LockTimeout, err)
		}
		c.LockTimeout = d
	}
	if fc.ReadRetries != nil {
		c.ReadRetries = *fc.ReadRetries
	}
	if fc.RetryBase != "" {
		d, err := time.ParseDuration(fc.RetryBase)
		if err != nil {
			return fmt.Errorf("invalid retry_base %q: %w", fc.RetryBase, err)
		}
		c.RetryBase = d
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv("NEXTCLASS_DATA_DIR")); v != "" {
		c.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("NEXTCLASS_LOCK_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid NEXTCLASS_LOCK_TIMEOUT %q: %w", v, err)
		}
		c.LockTimeout = d
	}
	if v := strings.TrimSpace(os.Getenv("NEXTCLASS_READ_RETRIES")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid NEXTCLASS_READ_RETRIES %q: %w", v, err)
		}
		c.ReadRetries = n
	}
	if v := strings.TrimSpace(os.Getenv("NEXTCLASS_RETRY_BASE")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid NEXTCLASS_RETRY_BASE %q: %w", v, err)
		}
		c.RetryBase = d
	}
	if v := strings.TrimSpace(os.Getenv("NEXTCLASS_LOG_LEVEL")); v != "" {
		c.LogLevel = v
	}
	return nil
}

func (c *Config) validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if c.LockTimeout < 0 {
		return fmt.Errorf("lock_timeout must not be negative")
	}
	if c.ReadRetries < 0 {
		return fmt.Errorf("read_retries must not be negative")
	}
	if c.RetryBase < 0 {
		return fmt.Errorf("retry_base must not be negative")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}
