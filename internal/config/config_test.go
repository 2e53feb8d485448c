package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/supplychain/pkg/errors"
	"github.com/matzehuels/supplychain/pkg/integrations/crates"
)

// isolate points every config location at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("SUPPLYCHAIN_CONFIG", "")
	for _, k := range []string{"CACHE_TTL", "CACHE_DIR", "CACHE_REDIS_URL", "CRATES_BASE_URL", "CRATES_CONCURRENCY", "METADATA_CARGO", "METADATA_TIMEOUT"} {
		t.Setenv("SUPPLYCHAIN_"+k, "")
		os.Unsetenv("SUPPLYCHAIN_" + k)
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	os.Unsetenv("SUPPLYCHAIN_CONFIG")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Cache.TTL != 24*time.Hour {
		t.Errorf("Cache.TTL = %v", c.Cache.TTL)
	}
	if c.Crates.BaseURL != crates.DefaultBaseURL {
		t.Errorf("Crates.BaseURL = %q", c.Crates.BaseURL)
	}
	if c.Crates.Concurrency != 4 {
		t.Errorf("Crates.Concurrency = %d", c.Crates.Concurrency)
	}
	if c.Cache.RedisURL != "" || c.Metadata.Cargo != "" || c.Metadata.Timeout != 0 {
		t.Errorf("unexpected non-empty defaults: %+v", c)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	os.WriteFile(path, []byte(`
[cache]
ttl = "2h"
redis_url = "redis://localhost:6379/0"

[crates]
concurrency = 8

[metadata]
cargo = "/opt/rust/bin/cargo"
timeout = "90s"
`), 0o644)
	t.Setenv("SUPPLYCHAIN_CONFIG", path)
	t.Setenv("SUPPLYCHAIN_CRATES_CONCURRENCY", "2")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Cache.TTL != 2*time.Hour {
		t.Errorf("Cache.TTL = %v, want 2h", c.Cache.TTL)
	}
	if c.Cache.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("Cache.RedisURL = %q", c.Cache.RedisURL)
	}
	if c.Crates.Concurrency != 2 {
		t.Errorf("env should override file: Concurrency = %d", c.Crates.Concurrency)
	}
	if c.Metadata.Cargo != "/opt/rust/bin/cargo" {
		t.Errorf("Metadata.Cargo = %q", c.Metadata.Cargo)
	}
	if c.Metadata.Timeout != 90*time.Second {
		t.Errorf("Metadata.Timeout = %v, want 90s", c.Metadata.Timeout)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	t.Setenv("SUPPLYCHAIN_CONFIG", filepath.Join(dir, "nope.toml"))

	_, err := Load()
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
	}
}

func TestValidate(t *testing.T) {
	good := Config{
		Cache:  CacheConfig{TTL: time.Hour},
		Crates: CratesConfig{BaseURL: "https://crates.io/api/v1", Concurrency: 1},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative ttl", func(c *Config) { c.Cache.TTL = -time.Second }},
		{"negative metadata timeout", func(c *Config) { c.Metadata.Timeout = -time.Minute }},
		{"zero concurrency", func(c *Config) { c.Crates.Concurrency = 0 }},
		{"bad base url", func(c *Config) { c.Crates.BaseURL = "ftp://crates.io" }},
		{"bad redis url", func(c *Config) { c.Cache.RedisURL = "localhost:6379" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := good
			tt.mutate(&c)
			if err := c.Validate(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestPath(t *testing.T) {
	isolate(t)
	t.Setenv("SUPPLYCHAIN_CONFIG", "/etc/supplychain.toml")
	if Path() != "/etc/supplychain.toml" {
		t.Errorf("Path() = %q", Path())
	}
}
