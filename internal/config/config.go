package config

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir      string `env:"DOGDOG_DATA_DIR" envDefault:"./data"`
	SaveFile     string `env:"DOGDOG_SAVE_FILE"` // bolt save file, defaults to <DataDir>/dogdog.db
	StoreBackend string `env:"DOGDOG_STORE" envDefault:"bolt"`

	// Settings for the sql backend. DatabaseURL is the mysql/postgres
	// connection string; the mysql DSN must include parseTime=true.
	DatabaseType string `env:"DOGDOG_DB_TYPE" envDefault:"sqlite"`
	DatabasePath string `env:"DOGDOG_DB_PATH"` // sqlite file, defaults to <DataDir>/progress.db
	DatabaseURL  string `env:"DOGDOG_DB_URL"`

	Locale           string        `env:"DOGDOG_LOCALE" envDefault:"en-US"`
	AutosaveInterval time.Duration `env:"DOGDOG_AUTOSAVE_INTERVAL" envDefault:"30s"`
	BatchSize        int           `env:"DOGDOG_BATCH_SIZE" envDefault:"10"`
}

// Load reads configuration from environment variables, merging in a .env
// file from the working directory when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.SaveFile == "" {
		c.SaveFile = filepath.Join(c.DataDir, "dogdog.db")
	}
	if c.DatabasePath == "" {
		c.DatabasePath = filepath.Join(c.DataDir, "progress.db")
	}
}

func (c *Config) validate() error {
	switch strings.ToLower(c.StoreBackend) {
	case "bolt", "sql", "memory":
	default:
		return fmt.Errorf("unsupported store backend: %s", c.StoreBackend)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch size must be at least 1, got %d", c.BatchSize)
	}
	if c.AutosaveInterval <= 0 {
		return fmt.Errorf("autosave interval must be positive, got %s", c.AutosaveInterval)
	}
	return nil
}
