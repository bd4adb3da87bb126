package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for virsa-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values. Secrets (passwords, API
// keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// AllowedOriginsStr is a comma-separated list of origins permitted to call
	// the API (the recording/timeline frontend runs as a separate app).
	AllowedOriginsStr string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-default:"*"`

	// AllowedOrigins is the parsed list from AllowedOriginsStr (not from config file).
	AllowedOrigins []string `yaml:"-"`

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// AI model endpoint used by the organizer/extractor pipeline
	AI AIConfig `yaml:"ai"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"postgres"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"virsa"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// URL builds a postgres connection URL from the individual fields.
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// AIConfig holds the LLM endpoint used for narrative organization and
// structured extraction. The pipeline is optional: stories can always be
// archived through the import endpoint without any AI configured.
type AIConfig struct {
	// Provider selects the client implementation: "openai" (any
	// OpenAI-compatible endpoint, including local Ollama) or "anthropic".
	Provider string `yaml:"provider" env:"AI_PROVIDER" env-default:"openai"`
	Endpoint string `yaml:"endpoint" env:"AI_ENDPOINT" env-default:"http://localhost:11434/v1"`
	Model    string `yaml:"model" env:"AI_MODEL" env-default:"mistral"`
	APIKey   string `yaml:"-" env:"AI_API_KEY"` // Secret - not in YAML
}

// IsAvailable returns true if the AI pipeline is configured.
func (c *AIConfig) IsAvailable() bool {
	return c.Provider != "" && c.Endpoint != "" && c.Model != ""
}

// Load reads configuration from config.yaml with environment variable
// overrides. If config.yaml does not exist, configuration comes from the
// environment alone. The version parameter is injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from environment: %w", err)
		}
	}

	if err := cfg.parseComplexFields(); err != nil {
		return nil, fmt.Errorf("failed to parse config fields: %w", err)
	}

	return cfg, nil
}

// parseComplexFields derives parsed fields from their raw string forms.
func (cfg *Config) parseComplexFields() error {
	for _, origin := range strings.Split(cfg.AllowedOriginsStr, ",") {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
	}
	if len(cfg.AllowedOrigins) == 0 {
		return fmt.Errorf("allowed_origins must not be empty")
	}

	switch cfg.AI.Provider {
	case "", "openai", "anthropic":
	default:
		return fmt.Errorf("unknown AI provider %q", cfg.AI.Provider)
	}

	return nil
}
