package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	BackendMemory    = "memory"
	BackendPostgres  = "postgres"
	BackendMongo     = "mongo"
	BackendFirestore = "firestore"
)

type Config struct {
	Env             string   `toml:"env"`
	Port            string   `toml:"port"`
	LogLevel        string   `toml:"log_level"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	SeedSampleData  bool     `toml:"seed_sample_data"`

	Store StoreConfig `toml:"store"`
}

// Duration reads "10s"-style strings from TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

type StoreConfig struct {
	// Backend selects where carts and pets live. With "firestore" only carts
	// go to Firestore; pets stay in memory.
	Backend            string `toml:"backend"`
	DatabaseURL        string `toml:"database_url"`
	MongoURI           string `toml:"mongo_uri"`
	MongoDatabase      string `toml:"mongo_database"`
	FirestoreProjectID string `toml:"firestore_project_id"`
}

func Default() Config {
	return Config{
		Env:             "development",
		Port:            "8080",
		LogLevel:        "info",
		ShutdownTimeout: Duration{10 * time.Second},
		SeedSampleData:  true,
		Store: StoreConfig{
			Backend:       BackendMemory,
			MongoDatabase: "petshop",
		},
	}
}

// Load builds the configuration from defaults, then the TOML file at path (if
// path is non-empty), then environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("ENV", &cfg.Env)
	str("PORT", &cfg.Port)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("STORE_BACKEND", &cfg.Store.Backend)
	str("DATABASE_URL", &cfg.Store.DatabaseURL)
	str("MONGO_URI", &cfg.Store.MongoURI)
	str("MONGO_DATABASE", &cfg.Store.MongoDatabase)
	str("FIRESTORE_PROJECT_ID", &cfg.Store.FirestoreProjectID)

	if v, ok := lookup("SEED_SAMPLE_DATA"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: SEED_SAMPLE_DATA: %w", err)
		}
		cfg.SeedSampleData = b
	}
	if v, ok := lookup("SHUTDOWN_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownTimeout = Duration{d}
	}
	return nil
}

func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("config: port is required")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("config: invalid port %q", c.Port)
	}
	if c.ShutdownTimeout.Duration <= 0 {
		return errors.New("config: shutdown_timeout must be positive")
	}

	switch c.Store.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Store.DatabaseURL == "" {
			return errors.New("config: database_url is required for the postgres backend")
		}
	case BackendMongo:
		if c.Store.MongoURI == "" || c.Store.MongoDatabase == "" {
			return errors.New("config: mongo_uri and mongo_database are required for the mongo backend")
		}
	case BackendFirestore:
		if c.Store.FirestoreProjectID == "" {
			return errors.New("config: firestore_project_id is required for the firestore backend")
		}
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}
