package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	DefaultManifestPath = "posts.json"

	DefaultCacheEnabled = true
	DefaultCachePath    = "posts.cache.json"

	DefaultPagesEnabled = false
	DefaultPagesTTL     = 24 * time.Hour

	DefaultFetchTimeout = 30 * time.Second
	DefaultMaxRetries   = 2

	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".blogdata"
	}
	return filepath.Join(home, ".blogdata")
}

// PagesDir returns the default page cache directory
func PagesDir() string {
	return filepath.Join(ConfigDir(), "pages")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Manifest: ManifestConfig{
			Path: DefaultManifestPath,
		},
		Cache: CacheConfig{
			Enabled: DefaultCacheEnabled,
			Path:    DefaultCachePath,
		},
		Pages: PagesConfig{
			Enabled:   DefaultPagesEnabled,
			Directory: PagesDir(),
			TTL:       DefaultPagesTTL,
		},
		Fetch: FetchConfig{
			Timeout:    DefaultFetchTimeout,
			MaxRetries: DefaultMaxRetries,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
