package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"ENV", "PORT", "LOG_LEVEL", "STORE_BACKEND", "DATABASE_URL", "MONGO_URI",
	"MONGO_DATABASE", "FIRESTORE_PROJECT_ID", "SEED_SAMPLE_DATA", "SHUTDOWN_TIMEOUT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func fakeEnv(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout.Duration)
	assert.True(t, cfg.SeedSampleData)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "petshop.toml")
	err := os.WriteFile(path, []byte(`
env = "production"
port = "9090"
log_level = "debug"
shutdown_timeout = "3s"
seed_sample_data = false

[store]
backend = "postgres"
database_url = "postgres://localhost/petshop?sslmode=disable"
`), 0o600)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout.Duration)
	assert.False(t, cfg.SeedSampleData)
	assert.Equal(t, BackendPostgres, cfg.Store.Backend)

	t.Setenv("PORT", "7070")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := applyEnv(&cfg, fakeEnv(map[string]string{
		"STORE_BACKEND":    "mongo",
		"MONGO_URI":        "mongodb://localhost:27017",
		"SEED_SAMPLE_DATA": "false",
		"SHUTDOWN_TIMEOUT": "250ms",
		"LOG_LEVEL":        "  ",
	}))
	require.NoError(t, err)
	assert.Equal(t, BackendMongo, cfg.Store.Backend)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Store.MongoURI)
	assert.Equal(t, "petshop", cfg.Store.MongoDatabase)
	assert.False(t, cfg.SeedSampleData)
	assert.Equal(t, 250*time.Millisecond, cfg.ShutdownTimeout.Duration)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	cfg := Default()
	assert.Error(t, applyEnv(&cfg, fakeEnv(map[string]string{"SEED_SAMPLE_DATA": "maybe"})))

	cfg = Default()
	assert.Error(t, applyEnv(&cfg, fakeEnv(map[string]string{"SHUTDOWN_TIMEOUT": "soon"})))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"non-numeric port", func(c *Config) { c.Port = "http" }, true},
		{"zero shutdown timeout", func(c *Config) { c.ShutdownTimeout = Duration{} }, true},
		{"postgres without url", func(c *Config) { c.Store.Backend = BackendPostgres }, true},
		{"mongo without uri", func(c *Config) { c.Store.Backend = BackendMongo }, true},
		{"firestore without project", func(c *Config) { c.Store.Backend = BackendFirestore }, true},
		{"firestore with project", func(c *Config) {
			c.Store.Backend = BackendFirestore
			c.Store.FirestoreProjectID = "petshop-dev"
		}, false},
		{"unknown backend", func(c *Config) { c.Store.Backend = "redis" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
