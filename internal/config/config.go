// Package config loads server settings from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/resurgent.yaml"

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"

	SeederUniform = "uniform"
	SeederNoise   = "noise"
	SeederFixed   = "fixed"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Addr           string `yaml:"addr"`
	Storage        string `yaml:"storage"`
	DBDSN          string `yaml:"db_dsn"`
	SQLitePath     string `yaml:"sqlite_path"`
	MigrationsDir  string `yaml:"migrations_dir"`
	AutoIntervalMS int    `yaml:"auto_interval_ms"`
	MapSeeder      string `yaml:"map_seeder"`
	// Content points at a content.yaml; empty keeps the built-in tables.
	Content    string `yaml:"content"`
	GuidesRoot string `yaml:"guides_root"`
	// Seed fixes the random source; 0 seeds from the clock.
	Seed        int64    `yaml:"seed"`
	CORSOrigins []string `yaml:"cors_origins"`
}

func Default() Config {
	return Config{
		Addr:           ":8080",
		Storage:        StorageMemory,
		SQLitePath:     "data/resurgent.db",
		MigrationsDir:  "db/migrations/postgres",
		AutoIntervalMS: 1000,
		MapSeeder:      SeederUniform,
	}
}

func (c *Config) ApplyDefaults() {
	d := Default()
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.Storage == "" {
		c.Storage = d.Storage
	}
	if c.SQLitePath == "" {
		c.SQLitePath = d.SQLitePath
	}
	if c.MigrationsDir == "" {
		c.MigrationsDir = d.MigrationsDir
	}
	if c.AutoIntervalMS <= 0 {
		c.AutoIntervalMS = d.AutoIntervalMS
	}
	if c.MapSeeder == "" {
		c.MapSeeder = d.MapSeeder
	}
}

// ApplyEnv overrides file values with RESURGENT_* variables.
func (c *Config) ApplyEnv() {
	c.Addr = stringEnv("RESURGENT_ADDR", c.Addr)
	c.Storage = stringEnv("RESURGENT_STORAGE", c.Storage)
	c.DBDSN = stringEnv("RESURGENT_DB_DSN", c.DBDSN)
	c.SQLitePath = stringEnv("RESURGENT_SQLITE_PATH", c.SQLitePath)
	c.MigrationsDir = stringEnv("RESURGENT_MIGRATIONS_DIR", c.MigrationsDir)
	c.AutoIntervalMS = intEnv("RESURGENT_AUTO_INTERVAL_MS", c.AutoIntervalMS)
	c.MapSeeder = stringEnv("RESURGENT_MAP_SEEDER", c.MapSeeder)
	c.Content = stringEnv("RESURGENT_CONTENT", c.Content)
	c.GuidesRoot = stringEnv("RESURGENT_GUIDES_ROOT", c.GuidesRoot)
	c.Seed = int64(intEnv("RESURGENT_SEED", int(c.Seed)))
	if v := stringEnv("RESURGENT_CORS_ORIGINS", ""); v != "" {
		c.CORSOrigins = splitList(v)
	}
}

func (c Config) Validate() error {
	switch c.Storage {
	case StorageMemory, StorageSQLite:
	case StoragePostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("%w: RESURGENT_DB_DSN is required for postgres storage", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage %q", ErrInvalidConfig, c.Storage)
	}
	switch c.MapSeeder {
	case SeederUniform, SeederNoise, SeederFixed:
	default:
		return fmt.Errorf("%w: unknown map seeder %q", ErrInvalidConfig, c.MapSeeder)
	}
	return nil
}

func (c Config) AutoInterval() time.Duration {
	return time.Duration(c.AutoIntervalMS) * time.Millisecond
}

// Load reads path, applies defaults and environment overrides, and validates
// the result. A missing file at the default path is not an error.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath
	}
	var c Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && path == DefaultPath:
	default:
		return Config{}, err
	}
	c.ApplyDefaults()
	c.ApplyEnv()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func stringEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
