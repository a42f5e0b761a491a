package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ratekit/qctl/pkg/quote"
)

const (
	configFileName = "config.yaml"
	dirMode        = 0700
	fileMode       = 0600
)

// Config is the explicit engine and dispatch configuration, resolved once
// at startup. The engine receives its options from here and never reads
// process state afterwards.
//
// RateLimitPerMinute, MaxConcurrentRequests, and CacheTTLSeconds are
// recognized knobs whose enforcement belongs to the dispatch layer, not
// the engine; they are carried here so callers share one surface.
type Config struct {
	RateLimitPerMinute    int           `yaml:"rate_limit_per_minute"`
	MaxConcurrentRequests int           `yaml:"max_concurrent_requests"`
	CacheTTLSeconds       int           `yaml:"cache_ttl_seconds"`
	SurchargesEnabled     bool          `yaml:"surcharges_enabled"`
	Weights               quote.Weights `yaml:"scoring_weights"`
	DBPath                string        `yaml:"db_path,omitempty"`
	PostgresDSN           string        `yaml:"postgres_dsn,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		RateLimitPerMinute:    120,
		MaxConcurrentRequests: 8,
		CacheTTLSeconds:       300,
		SurchargesEnabled:     true,
		Weights:               quote.DefaultWeights(),
	}
}

// EngineOptions maps the configuration onto the quoting engine's options.
func (c *Config) EngineOptions() quote.Options {
	return quote.Options{
		SurchargesEnabled: c.SurchargesEnabled,
		DefaultWeights:    c.Weights,
	}
}

// ReadOrCreate loads the config file from the given directory, writing
// the defaults first when none exists, then applies environment variable
// overrides. Keys missing from the file keep their defaults.
func ReadOrCreate(dirPath string) (*Config, error) {
	if dirPath == "" {
		return nil, errors.New("config directory required")
	}

	if _, err := os.Stat(dirPath); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(dirPath, dirMode); err != nil {
			return nil, fmt.Errorf("creating config dir %s: %w", dirPath, err)
		}
	}

	path := filepath.Join(dirPath, configFileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := Save(dirPath, Default()); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("unmarshalling config file %s: %w", path, err)
	}

	c.applyEnv()
	return c, nil
}

// Save writes the config to the given directory.
func Save(dirPath string, c *Config) error {
	if dirPath == "" {
		return errors.New("config directory required")
	}
	if c == nil {
		return errors.New("config required")
	}

	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	path := filepath.Join(dirPath, configFileName)
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}

// applyEnv overlays recognized environment variables. This is the only
// point where process state enters the configuration.
func (c *Config) applyEnv() {
	setInt(&c.RateLimitPerMinute, "RATE_LIMIT_PER_MINUTE")
	setInt(&c.MaxConcurrentRequests, "MAX_CONCURRENT_REQUESTS")
	setInt(&c.CacheTTLSeconds, "CACHE_TTL_SECONDS")
	setBool(&c.SurchargesEnabled, "SURCHARGES_ENABLED")
	setFloat(&c.Weights.Cost, "SCORING_WEIGHTS_COST")
	setFloat(&c.Weights.Time, "SCORING_WEIGHTS_TIME")
	setFloat(&c.Weights.Reliability, "SCORING_WEIGHTS_RELIABILITY")
	setFloat(&c.Weights.Risk, "SCORING_WEIGHTS_RISK")

	if v := os.Getenv("POSTGRES_URL"); v != "" {
		c.PostgresDSN = v
	}
}

func setInt(target *int, key string) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*target = n
	}
}

func setFloat(target *float64, key string) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		*target = f
	}
}

func setBool(target *bool, key string) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return
	}
	if b, err := strconv.ParseBool(v); err == nil {
		*target = b
	}
}
