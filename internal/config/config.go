// Package config loads application settings: a YAML file for the
// durable knobs, environment variables for deploy-time overrides and
// secrets.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Generation defaults used when no saved document exists.
	Name        string `yaml:"name" env:"SWTGEN_NAME"`
	Seed        int64  `yaml:"seed" env:"SWTGEN_SEED"`
	AbundanceDM int    `yaml:"abundance_dm" env:"SWTGEN_ABUNDANCE_DM"`
	Columns     int    `yaml:"columns" env:"SWTGEN_COLUMNS"`
	Rows        int    `yaml:"rows" env:"SWTGEN_ROWS"`

	DBPath string `yaml:"db_path" env:"SWTGEN_DB_PATH"`
	Slot   string `yaml:"slot" env:"SWTGEN_SLOT"`

	Port        int      `yaml:"port" env:"SWTGEN_PORT"`
	CORSOrigins []string `yaml:"cors_origins" env:"SWTGEN_CORS_ORIGINS" envSeparator:","`
	LogLevel    string   `yaml:"log_level" env:"SWTGEN_LOG_LEVEL"`

	// Secret, never read from YAML. Empty disables mutations.
	AdminKey string `yaml:"-" env:"SWTGEN_ADMIN_KEY"`
}

func defaults() Config {
	return Config{
		Seed:        1,
		Columns:     8,
		Rows:        10,
		DBPath:      "data/swtgen.db",
		Slot:        "campaign",
		Port:        8610,
		CORSOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
		LogLevel:    "info",
	}
}

// Load reads the YAML file (optional), applies environment overrides,
// and validates. An empty path means defaults plus environment.
func Load(path string) (Config, error) {
	cfg := defaults()
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Columns < 1 || c.Rows < 1 {
		return fmt.Errorf("grid %dx%d must be at least 1x1", c.Columns, c.Rows)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	if strings.TrimSpace(c.Slot) == "" {
		return fmt.Errorf("slot must not be empty")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}
