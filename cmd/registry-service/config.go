package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"civicboard/internal/common/cache"
	"civicboard/pkg/utils/logger"

	"gopkg.in/yaml.v3"
)

const (
	defaultPort            = "3001"
	defaultMode            = "development"
	defaultReadTimeout     = 5 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

const (
	storeMemory = "memory"
	storeRedis  = "redis"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	IdleTimeout  time.Duration `yaml:"idleTimeout"`
}

// RegistryConfig holds problem registry settings.
type RegistryConfig struct {
	// RoutePrefix is prepended to every route, e.g. "/api". Empty by default.
	RoutePrefix string `yaml:"routePrefix"`
	// Store selects the collection backend: "memory" (default) or "redis".
	Store string `yaml:"store"`
	// RedisKeyPrefix namespaces the redis keys when Store is "redis".
	RedisKeyPrefix string `yaml:"redisKeyPrefix"`
}

// AppConfig holds the registry-service configuration.
type AppConfig struct {
	// Mode is "development" or "production"; it gates gin mode and whether
	// 500 responses carry an error detail field.
	Mode string `yaml:"mode"`

	Server   ServerConfig      `yaml:"server"`
	Logger   logger.Config     `yaml:"logger"`
	Registry RegistryConfig    `yaml:"registry"`
	Redis    cache.RedisConfig `yaml:"redis"`
}

func loadYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file failed: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config file failed: %w", err)
	}
	return nil
}

// loadAppConfig reads the YAML config if present, then applies environment
// overrides (PORT, APP_ENV) and defaults. The default config file is optional
// so the service can run from environment alone.
func loadAppConfig(path string, pathIsExplicit bool) (*AppConfig, error) {
	var cfg AppConfig
	if err := loadYAML(path, &cfg); err != nil {
		if pathIsExplicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = "0.0.0.0:" + port
	}
	if mode := os.Getenv("APP_ENV"); mode != "" {
		cfg.Mode = mode
	}

	applyDefaults(&cfg)

	if cfg.Mode != "development" && cfg.Mode != "production" {
		return nil, fmt.Errorf("invalid mode %q: must be development or production", cfg.Mode)
	}
	if cfg.Registry.Store != storeMemory && cfg.Registry.Store != storeRedis {
		return nil, fmt.Errorf("invalid store %q: must be memory or redis", cfg.Registry.Store)
	}
	if cfg.Registry.Store == storeRedis && cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis addr is required when store is redis")
	}

	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Mode == "" {
		cfg.Mode = defaultMode
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = "0.0.0.0:" + defaultPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = defaultIdleTimeout
	}
	if cfg.Registry.Store == "" {
		cfg.Registry.Store = storeMemory
	}
	if cfg.Registry.Store == storeRedis {
		defaults := cache.DefaultRedisConfig()
		if cfg.Redis.DialTimeout == 0 {
			cfg.Redis.DialTimeout = defaults.DialTimeout
		}
		if cfg.Redis.ReadTimeout == 0 {
			cfg.Redis.ReadTimeout = defaults.ReadTimeout
		}
		if cfg.Redis.WriteTimeout == 0 {
			cfg.Redis.WriteTimeout = defaults.WriteTimeout
		}
		if cfg.Redis.PoolSize == 0 {
			cfg.Redis.PoolSize = defaults.PoolSize
		}
	}
}
