// Package config loads runtime configuration from the environment and an
// optional config file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backend selectors.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Config holds the runtime configuration for the service.
type Config struct {
	Addr string

	Storage     string
	DataDir     string
	RedisAddr   string
	DatabaseURL string

	LookupBaseURL string
	LookupTimeout time.Duration

	RateLimitPerSecond float64
	RateLimitBurst     int
}

// Load reads configuration from INVENTORY_* environment variables and an
// optional config.yaml in the working directory. Environment wins.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("addr", ":8080")
	v.SetDefault("storage", StorageFile)
	v.SetDefault("data_dir", "./data")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("database_url", "")
	v.SetDefault("lookup_base_url", "")
	v.SetDefault("lookup_timeout", 5*time.Second)
	v.SetDefault("rate_limit_per_second", 25)
	v.SetDefault("rate_limit_burst", 50)

	v.SetEnvPrefix("INVENTORY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Addr:               v.GetString("addr"),
		Storage:            v.GetString("storage"),
		DataDir:            v.GetString("data_dir"),
		RedisAddr:          v.GetString("redis_addr"),
		DatabaseURL:        v.GetString("database_url"),
		LookupBaseURL:      v.GetString("lookup_base_url"),
		LookupTimeout:      v.GetDuration("lookup_timeout"),
		RateLimitPerSecond: v.GetFloat64("rate_limit_per_second"),
		RateLimitBurst:     v.GetInt("rate_limit_burst"),
	}

	switch cfg.Storage {
	case StorageMemory, StorageFile, StorageRedis, StoragePostgres:
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
	if cfg.Storage == StoragePostgres && cfg.DatabaseURL == "" {
		return nil, errors.New("database_url is required for the postgres backend")
	}
	return cfg, nil
}
