package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	StoreBackendPostgres = "postgres"
	StoreBackendRedis    = "redis"
	StoreBackendSQLite   = "sqlite"
	StoreBackendMemory   = "memory"
)

type Config struct {
	Environment string `toml:"-"`

	Host string `toml:"host"`
	Port int    `toml:"port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// browser origins allowed by CORS, "*" allows all
	AllowedOrigins []string `toml:"allowed_origins"`
	// storage
	StoreBackend     string `toml:"store_backend"`
	PostgresHost     string `toml:"postgres_host"`
	PostgresPort     string `toml:"postgres_port"`
	PostgresDBName   string `toml:"postgres_db_name"`
	RedisHost        string `toml:"redis_host"`
	RedisPort        string `toml:"redis_port"`
	SQLitePath       string `toml:"sqlite_path"`
	DocumentCacheMB  int    `toml:"document_cache_mb"`
	LockTTLSeconds   int    `toml:"lock_ttl_seconds"`
	CheckInRateLimit int    `toml:"checkin_rate_limit_per_min"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// calendar days for streaks are taken in this location
	Timezone string `toml:"timezone"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		if t.Development == nil {
			return nil, fmt.Errorf("no development config")
		}
		t.Development.Environment = "development"
		return t.Development, nil
	case "prod", "production":
		if t.Production == nil {
			return nil, fmt.Errorf("no production config")
		}
		t.Production.Environment = "production"
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path and returns the validated config of the given env.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
	}
	return t.Load(env)
}

func (t *Toml) Load(env string) (*Config, error) {
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", cfg.Environment, err)
	}
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.StoreBackend == "" {
		c.StoreBackend = StoreBackendMemory
	}
	if c.LockTTLSeconds == 0 {
		c.LockTTLSeconds = 10
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}

	switch c.StoreBackend {
	case StoreBackendPostgres:
		if c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDBName == "" {
			return fmt.Errorf("postgres store needs postgres_host, postgres_port and postgres_db_name")
		}
	case StoreBackendRedis:
		if c.RedisHost == "" || c.RedisPort == "" {
			return fmt.Errorf("redis store needs redis_host and redis_port")
		}
	case StoreBackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("sqlite store needs sqlite_path")
		}
	case StoreBackendMemory:
	default:
		return fmt.Errorf("unknown store backend [%s]", c.StoreBackend)
	}

	if c.DocumentCacheMB < 0 {
		return fmt.Errorf("negative document cache size")
	}
	if c.CheckInRateLimit < 0 {
		return fmt.Errorf("negative check-in rate limit")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	return nil
}

// Location is only valid after a successful Validate.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) LockTTL() time.Duration {
	return time.Duration(c.LockTTLSeconds) * time.Second
}
