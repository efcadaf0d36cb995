// Package config loads the soql command configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/vegasq/soql/cache"
	"github.com/vegasq/soql/internal/log"
	"github.com/vegasq/soql/output"
)

// Config is the command configuration
type Config struct {
	Output OutputConfig `yaml:"output"`
	Query  QueryConfig  `yaml:"query"`
	Cache  CacheConfig  `yaml:"cache"`
	Log    log.Config   `yaml:"log"`
}

// OutputConfig selects the result format
type OutputConfig struct {
	Format string `yaml:"format"`
}

// QueryConfig sets parsing defaults
type QueryConfig struct {
	// Mode: query, expr or where
	Mode     string `yaml:"mode"`
	Simplify bool   `yaml:"simplify"`
}

// CacheConfig sizes the parse cache
type CacheConfig struct {
	Size int `yaml:"size"`
}

// Default returns the built-in configuration
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// Load reads path, applies defaults and environment overrides and validates
// the result
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.SetDefaults()
	cfg.OverrideFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads path when it is set and exists, otherwise it starts
// from Default
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		cfg, err := Load(path)
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg := Default()
	cfg.OverrideFromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SetDefaults fills unset fields
func (c *Config) SetDefaults() {
	if c.Output.Format == "" {
		c.Output.Format = "table"
	}
	if c.Query.Mode == "" {
		c.Query.Mode = cache.ModeQuery.String()
	}
	if c.Cache.Size == 0 {
		c.Cache.Size = 128
	}

	def := log.DefaultConfig()
	if c.Log.Level == "" {
		c.Log.Level = def.Level
	}
	if c.Log.Encoding == "" {
		c.Log.Encoding = def.Encoding
	}
	if len(c.Log.OutputPaths) == 0 {
		c.Log.OutputPaths = def.OutputPaths
	}
}

// OverrideFromEnv applies SOQL_* environment variables
func (c *Config) OverrideFromEnv() {
	if format := os.Getenv("SOQL_FORMAT"); format != "" {
		c.Output.Format = format
	}
	if mode := os.Getenv("SOQL_MODE"); mode != "" {
		c.Query.Mode = mode
	}
	if size := os.Getenv("SOQL_CACHE_SIZE"); size != "" {
		if n, err := strconv.Atoi(size); err == nil {
			c.Cache.Size = n
		}
	}
	if level := os.Getenv("SOQL_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if encoding := os.Getenv("SOQL_LOG_ENCODING"); encoding != "" {
		c.Log.Encoding = encoding
	}
}

// Validate checks field ranges and names
func (c *Config) Validate() error {
	if !slices.Contains(output.Formats, c.Output.Format) {
		return fmt.Errorf("output.format %q is not one of %v", c.Output.Format, output.Formats)
	}
	if _, err := cache.ParseMode(c.Query.Mode); err != nil {
		return fmt.Errorf("query.mode: %w", err)
	}
	if c.Cache.Size <= 0 {
		return fmt.Errorf("cache.size must be > 0")
	}
	switch c.Log.Encoding {
	case "json", "console":
	default:
		return fmt.Errorf("log.encoding must be json or console")
	}
	return nil
}
