// Package config loads runtime settings from a config file and environment
// variables, with sane defaults for every field.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/blockforge/worldstore/internal/world/region"
)

// Config holds every tunable of the world store.
type Config struct {
	Seed        int64         `mapstructure:"seed"`
	Dir         string        `mapstructure:"dir"`
	Generator   string        `mapstructure:"generator"`   // "default" or "flat"
	Compression string        `mapstructure:"compression"` // gzip, zlib, none, lz4
	CacheChunks int64         `mapstructure:"cache_chunks"`
	LockTimeout time.Duration `mapstructure:"lock_timeout"`
	Workers     int           `mapstructure:"workers"`
	LogLevel    string        `mapstructure:"log_level"`
}

// Load reads configuration from path (optional; empty means defaults only)
// and from WORLDSTORE_* environment variables, then validates it.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("seed", 0)
	v.SetDefault("dir", "world")
	v.SetDefault("generator", "default")
	v.SetDefault("compression", "zlib")
	v.SetDefault("cache_chunks", 1024)
	v.SetDefault("lock_timeout", 5*time.Second)
	v.SetDefault("workers", 4)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("worldstore")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Generator {
	case "default", "flat":
	default:
		return fmt.Errorf("unknown generator %q", c.Generator)
	}
	if _, err := region.ParseScheme(c.Compression); err != nil {
		return err
	}
	if c.CacheChunks < 0 {
		return fmt.Errorf("cache_chunks must not be negative")
	}
	if c.LockTimeout <= 0 {
		return fmt.Errorf("lock_timeout must be positive")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	return nil
}

// Scheme returns the parsed compression scheme. Call only after Load has
// validated the config.
func (c *Config) Scheme() region.Scheme {
	s, _ := region.ParseScheme(c.Compression)
	return s
}
