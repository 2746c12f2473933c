// Package config loads depsort settings from a TOML file and DEPSORT_*
// environment variables.
//
// Precedence, highest first: command-line flags (applied by the CLI),
// environment variables, the config file, built-in defaults. Nested keys map
// to environment variables by upper-casing and replacing dots with
// underscores, so cache.backend becomes DEPSORT_CACHE_BACKEND.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/matzehuels/depsort/pkg/cache"
)

const (
	// AppName is the application name used for directories and env vars.
	AppName = "depsort"
	// ConfigFileName is the config file name without extension.
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "toml"
	// EnvPrefix prefixes every environment variable.
	EnvPrefix = "DEPSORT"
)

// Config is the complete configuration.
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Mongo  MongoConfig  `mapstructure:"mongo"`
	Server ServerConfig `mapstructure:"server"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
}

// CacheConfig selects the result cache.
type CacheConfig struct {
	Backend string        `mapstructure:"backend"` // none, file, redis, mongo
	Dir     string        `mapstructure:"dir"`     // file backend; empty means the XDG cache dir
	TTL     time.Duration `mapstructure:"ttl"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr   string `mapstructure:"addr"`
	Prefix string `mapstructure:"prefix"`
}

// MongoConfig configures the mongo backend.
type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

// ServerConfig configures `depsort serve`.
type ServerConfig struct {
	Addr    string        `mapstructure:"addr"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Log:    LogConfig{Level: "info"},
		Cache:  CacheConfig{Backend: cache.BackendFile, TTL: 7 * 24 * time.Hour},
		Redis:  RedisConfig{Addr: "localhost:6379", Prefix: "depsort:"},
		Mongo:  MongoConfig{URI: "mongodb://localhost:27017", Database: "depsort"},
		Server: ServerConfig{Addr: ":8080", Timeout: 30 * time.Second},
	}
}

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// ConfigFilePath is an explicit config file (--config). It must exist.
	ConfigFilePath string
	// ConfigDirPath overrides the config directory, mainly for tests.
	ConfigDirPath string
}

// Dir returns $XDG_CONFIG_HOME/depsort, or the OS user config directory.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config directory: %w", err)
	}
	return filepath.Join(dir, AppName), nil
}

// Load reads the configuration. It returns the config and the path of the
// file that was used ("" when only defaults and environment applied).
func Load(opts LoadOptions) (*Config, string, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("cache.backend", defaults.Cache.Backend)
	v.SetDefault("cache.dir", defaults.Cache.Dir)
	v.SetDefault("cache.ttl", defaults.Cache.TTL)
	v.SetDefault("redis.addr", defaults.Redis.Addr)
	v.SetDefault("redis.prefix", defaults.Redis.Prefix)
	v.SetDefault("mongo.uri", defaults.Mongo.URI)
	v.SetDefault("mongo.database", defaults.Mongo.Database)
	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("server.timeout", defaults.Server.Timeout)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolved := ""
	if opts.ConfigFilePath != "" {
		if _, err := os.Stat(opts.ConfigFilePath); err != nil {
			return nil, "", fmt.Errorf("config file not found: %s", opts.ConfigFilePath)
		}
		v.SetConfigFile(opts.ConfigFilePath)
		resolved = opts.ConfigFilePath
	} else {
		dir := opts.ConfigDirPath
		if dir == "" {
			var err error
			if dir, err = Dir(); err != nil {
				return nil, "", err
			}
		}
		path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			resolved = path
		}
	}

	if resolved != "" {
		v.SetConfigType(ConfigFileExt)
		if err := v.ReadInConfig(); err != nil {
			return nil, "", fmt.Errorf("read config %s: %w", resolved, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, resolved, nil
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(cache.Backends, strings.ToLower(c.Cache.Backend)) {
		errs = append(errs, fmt.Errorf("cache.backend: unknown backend %q (want one of: %s)", c.Cache.Backend, strings.Join(cache.Backends, ", ")))
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, errors.New("cache.ttl: must not be negative"))
	}
	return errors.Join(errs...)
}

// CacheOptions converts the cache settings for cache.Open.
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:       c.Cache.Backend,
		Dir:           c.Cache.Dir,
		RedisAddr:     c.Redis.Addr,
		RedisPrefix:   c.Redis.Prefix,
		MongoURI:      c.Mongo.URI,
		MongoDatabase: c.Mongo.Database,
	}
}
