// Package config loads supplychain settings from defaults, an optional TOML
// file and SUPPLYCHAIN_* environment variables, in increasing precedence.
package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/matzehuels/supplychain/pkg/errors"
	"github.com/matzehuels/supplychain/pkg/integrations/crates"
	"github.com/matzehuels/supplychain/pkg/publishers"
)

// EnvPrefix prefixes every environment override, e.g. SUPPLYCHAIN_CACHE_TTL.
const EnvPrefix = "SUPPLYCHAIN"

// Config holds application configuration.
type Config struct {
	Cache    CacheConfig    `mapstructure:"cache"`
	Crates   CratesConfig   `mapstructure:"crates"`
	Metadata MetadataConfig `mapstructure:"metadata"`
}

// CacheConfig selects and tunes the response cache.
type CacheConfig struct {
	TTL      time.Duration `mapstructure:"ttl"`
	Dir      string        `mapstructure:"dir"`       // file cache root; empty uses the user cache dir
	RedisURL string        `mapstructure:"redis_url"` // when set, Redis replaces the file cache
}

// CratesConfig holds crates.io API settings.
type CratesConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	Concurrency int    `mapstructure:"concurrency"`
}

// MetadataConfig holds graph source settings.
type MetadataConfig struct {
	Cargo   string        `mapstructure:"cargo"`   // cargo executable; empty uses $CARGO or "cargo"
	Timeout time.Duration `mapstructure:"timeout"` // limit for one cargo metadata run; 0 means none
}

// Path returns the config file location: $SUPPLYCHAIN_CONFIG when set,
// otherwise supplychain/config.toml under the user config dir.
func Path() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "supplychain", "config.toml")
}

// Load reads configuration from file and env. A missing default config file
// is not an error; a missing file named by SUPPLYCHAIN_CONFIG is.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("cache.ttl", 24*time.Hour)
	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("crates.base_url", crates.DefaultBaseURL)
	v.SetDefault("crates.concurrency", publishers.DefaultConcurrency)
	v.SetDefault("metadata.cargo", "")
	v.SetDefault("metadata.timeout", time.Duration(0))

	v.SetConfigType("toml")

	explicit := os.Getenv(EnvPrefix + "_CONFIG")
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else if p := Path(); p != "" {
		v.AddConfigPath(filepath.Dir(p))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !stderrors.As(err, &notFound) {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "unmarshal config")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if c.Metadata.Timeout < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "metadata.timeout must not be negative")
	}
	if c.Crates.Concurrency < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "crates.concurrency must be at least 1")
	}
	if err := errors.ValidateURL(c.Crates.BaseURL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "crates.base_url")
	}
	if c.Cache.RedisURL != "" && !strings.HasPrefix(c.Cache.RedisURL, "redis://") && !strings.HasPrefix(c.Cache.RedisURL, "rediss://") {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url must use redis:// or rediss://")
	}
	return nil
}
