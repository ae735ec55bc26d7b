package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides (BLOGDATA_FETCH_TIMEOUT, ...)
const EnvPrefix = "BLOGDATA"

// Load loads configuration from file, environment, and defaults.
// Uses the global viper instance to access CLI flag bindings.
func Load() (*Config, error) {
	return LoadWithViper(viper.GetViper())
}

// LoadFile loads configuration from an explicit file on a fresh viper instance
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return LoadWithViper(v)
}

// LoadWithViper loads configuration through v. A config file set with
// SetConfigFile must exist; otherwise config.yaml is searched in ConfigDir()
// and the working directory and may be absent.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	explicit := v.ConfigFileUsed() != ""
	if !explicit {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	v.SetDefault("manifest.path", DefaultManifestPath)

	v.SetDefault("cache.enabled", DefaultCacheEnabled)
	v.SetDefault("cache.path", DefaultCachePath)

	v.SetDefault("pages.enabled", DefaultPagesEnabled)
	v.SetDefault("pages.directory", PagesDir())
	v.SetDefault("pages.ttl", DefaultPagesTTL)

	v.SetDefault("fetch.timeout", DefaultFetchTimeout)
	v.SetDefault("fetch.max_retries", DefaultMaxRetries)
	v.SetDefault("fetch.user_agent", "")

	v.SetDefault("extract.readability_fallback", false)

	v.SetDefault("output.path", "")

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}
