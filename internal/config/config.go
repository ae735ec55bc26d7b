package config

import (
	"fmt"
	"time"
)

// Config represents the application configuration
type Config struct {
	Manifest ManifestConfig `mapstructure:"manifest" yaml:"manifest"`
	Cache    CacheConfig    `mapstructure:"cache" yaml:"cache"`
	Pages    PagesConfig    `mapstructure:"pages" yaml:"pages"`
	Fetch    FetchConfig    `mapstructure:"fetch" yaml:"fetch"`
	Extract  ExtractConfig  `mapstructure:"extract" yaml:"extract"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// ManifestConfig locates the curated list of posts
type ManifestConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// CacheConfig contains settings of the record cache file
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// PagesConfig contains settings of the fetched page cache
type PagesConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	Directory string        `mapstructure:"directory" yaml:"directory"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// FetchConfig contains HTTP fetch settings
type FetchConfig struct {
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries"`
	UserAgent  string        `mapstructure:"user_agent" yaml:"user_agent"`
}

// ExtractConfig contains metadata extraction settings
type ExtractConfig struct {
	ReadabilityFallback bool `mapstructure:"readability_fallback" yaml:"readability_fallback"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// Path of the JSON file for the site renderer; empty or "-" means stdout
	Path string `mapstructure:"path" yaml:"path"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate validates the configuration, replacing out-of-range values with
// defaults
func (c *Config) Validate() error {
	if c.Manifest.Path == "" {
		return fmt.Errorf("manifest.path is required")
	}
	if c.Cache.Path == "" {
		c.Cache.Path = DefaultCachePath
	}
	if c.Fetch.Timeout < time.Second {
		c.Fetch.Timeout = DefaultFetchTimeout
	}
	if c.Fetch.MaxRetries < 0 {
		c.Fetch.MaxRetries = DefaultMaxRetries
	}
	if c.Pages.TTL < time.Minute {
		c.Pages.TTL = DefaultPagesTTL
	}
	switch c.Logging.Format {
	case "pretty", "json":
	default:
		c.Logging.Format = DefaultLogFormat
	}
	return nil
}
