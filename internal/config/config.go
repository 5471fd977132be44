package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config application configuration, loaded from configs/config.{APP_ENV}.yaml
// with environment variable overrides for secrets.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Cache    CacheConfig    `yaml:"cache"`
	Versions VersionsConfig `yaml:"versions"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"` // debug | release
}

// DatabaseConfig MySQL settings
type DatabaseConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	User           string `yaml:"user"`
	Password       string `yaml:"password"`
	Name           string `yaml:"name"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// RedisConfig Redis settings
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// CacheConfig cache tier settings
type CacheConfig struct {
	DefaultTTLSeconds int `yaml:"default_ttl_seconds"`
}

// VersionsConfig autosave pruning settings
type VersionsConfig struct {
	AutosaveKeep         int `yaml:"autosave_keep"`
	PruneIntervalMinutes int `yaml:"prune_interval_minutes"`
	PruneBatchSize       int `yaml:"prune_batch_size"`
}

// GetDSN builds the MySQL DSN
func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// StorageTimeout returns the per-call datastore deadline
func (d DatabaseConfig) StorageTimeout() time.Duration {
	if d.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// DefaultTTL returns the cache default entry lifetime
func (c CacheConfig) DefaultTTL() time.Duration {
	if c.DefaultTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.DefaultTTLSeconds) * time.Second
}

// PruneInterval returns the autosave sweep interval
func (v VersionsConfig) PruneInterval() time.Duration {
	if v.PruneIntervalMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(v.PruneIntervalMinutes) * time.Minute
}

// Load reads the YAML config file and applies env var overrides
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server:   ServerConfig{Port: 8080, Mode: "debug"},
		Database: DatabaseConfig{Host: "127.0.0.1", Port: 3306, TimeoutSeconds: 5},
		Redis:    RedisConfig{Host: "127.0.0.1", Port: 6379, PoolSize: 10},
		Cache:    CacheConfig{DefaultTTLSeconds: 300},
		Versions: VersionsConfig{AutosaveKeep: 5, PruneIntervalMinutes: 30, PruneBatchSize: 50},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides lets deployment env vars win over the YAML file
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = p
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		cfg.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
}
