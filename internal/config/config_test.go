package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToml = `
[development]
port = 9000
store_backend = "sqlite"
sqlite_path = "./data/fitcoach.db"
allowed_origins = ["http://localhost:3000"]

[production]
host = "0.0.0.0"
port = 9000
store_backend = "postgres"
postgres_host = "postgres"
postgres_port = "5432"
postgres_db_name = "fitcoach"
redis_host = "redis"
redis_port = "6379"
lock_ttl_seconds = 3
checkin_rate_limit_per_min = 10
timezone = "Europe/Berlin"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, testToml)

	dev, err := Load("dev", path)
	require.NoError(t, err)
	assert.Equal(t, "development", dev.Environment)
	assert.Equal(t, "localhost", dev.Host)
	assert.Equal(t, StoreBackendSQLite, dev.StoreBackend)
	assert.Equal(t, []string{"http://localhost:3000"}, dev.AllowedOrigins)
	assert.Equal(t, 10*time.Second, dev.LockTTL())
	assert.Equal(t, time.UTC, dev.Location())

	prod, err := Load("production", path)
	require.NoError(t, err)
	assert.Equal(t, "production", prod.Environment)
	assert.Equal(t, "0.0.0.0", prod.Host)
	assert.Equal(t, 3*time.Second, prod.LockTTL())
	assert.Equal(t, 10, prod.CheckInRateLimit)
	assert.Equal(t, "Europe/Berlin", prod.Location().String())

	_, err = Load("staging", path)
	assert.EqualError(t, err, "unknown env: staging")

	_, err = Load("dev", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestToml_Get_MissingSection(t *testing.T) {
	tml := &Toml{Development: &Config{Port: 9000}}

	_, err := tml.Get("prod")
	assert.EqualError(t, err, "no production config")

	cfg, err := tml.Load("development")
	require.NoError(t, err)
	assert.Equal(t, StoreBackendMemory, cfg.StoreBackend)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:           9000,
			StoreBackend:   StoreBackendMemory,
			LockTTLSeconds: 10,
			Timezone:       "UTC",
		}
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(c *Config){
		"port out of range":   func(c *Config) { c.Port = 70000 },
		"unknown backend":     func(c *Config) { c.StoreBackend = "mongo" },
		"postgres without db": func(c *Config) { c.StoreBackend = StoreBackendPostgres },
		"redis without host":  func(c *Config) { c.StoreBackend = StoreBackendRedis },
		"sqlite without path": func(c *Config) { c.StoreBackend = StoreBackendSQLite },
		"negative cache":      func(c *Config) { c.DocumentCacheMB = -1 },
		"negative rate limit": func(c *Config) { c.CheckInRateLimit = -5 },
		"unknown timezone":    func(c *Config) { c.Timezone = "Mars/Olympus_Mons" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestRepoConfigFile(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		_, err := Load(env, "../../config.toml")
		assert.NoError(t, err, env)
	}
}
