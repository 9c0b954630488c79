// Package config loads kbase settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted by Load.
const (
	EnvConfig   = "KBASE_CONFIG"
	EnvDatabase = "KBASE_DB"
)

// Validation errors.
var (
	ErrConcurrency  = errors.New("config: 'concurrency' must not be negative")
	ErrRateLimit    = errors.New("config: 'rate_limit' must not be negative")
	ErrFetchTimeout = errors.New("config: 'fetch_timeout' must not be negative")
	ErrLogLevel     = errors.New("config: 'log_level' must be one of debug, info, warn, error")
	ErrSection      = errors.New("config: 'mandatory_sections' entries must be non-empty")
)

// Config holds kbase settings. Zero values mean "use the default".
type Config struct {
	Database          string        `yaml:"database"`
	Output            string        `yaml:"output"`
	Concurrency       int           `yaml:"concurrency"`
	Strict            bool          `yaml:"strict"`
	MandatorySections []string      `yaml:"mandatory_sections"`
	Stopwords         []string      `yaml:"stopwords"`
	LogLevel          string        `yaml:"log_level"`
	RateLimit         float64       `yaml:"rate_limit"`
	FetchTimeout      time.Duration `yaml:"fetch_timeout"`
}

// Default returns the configuration used when no file is present.
func Default(home string) *Config {
	return &Config{
		Database: filepath.Join(home, ".kbase", "kbase.db"),
		Output:   "kb-published",
		LogLevel: "info",
	}
}

// Path returns the config file location: flag, then $KBASE_CONFIG, then
// ~/.kbase/config.yaml.
func Path(flag, home string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	return filepath.Join(home, ".kbase", "config.yaml")
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error unless required is set. $KBASE_DB overrides the database path.
func Load(path, home string, required bool) (*Config, error) {
	cfg := Default(home)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
	case os.IsNotExist(err) && !required:
	default:
		return nil, err
	}

	if env := os.Getenv(EnvDatabase); env != "" {
		cfg.Database = env
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the config for errors.
func Validate(cfg *Config) error {
	if cfg.Concurrency < 0 {
		return ErrConcurrency
	}
	if cfg.RateLimit < 0 {
		return ErrRateLimit
	}
	if cfg.FetchTimeout < 0 {
		return ErrFetchTimeout
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	for _, s := range cfg.MandatorySections {
		if strings.TrimSpace(s) == "" {
			return ErrSection
		}
	}
	return nil
}

// ParseLevel maps a log_level value to a slog.Level. "" is info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, ErrLogLevel
}
