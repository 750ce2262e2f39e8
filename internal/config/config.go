package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`

	SaveDir    string `env:"BRONZE_SAVE_DIR" envDefault:".saves"`
	Difficulty string `env:"BRONZE_DIFFICULTY" envDefault:"normal"`
	// Seed makes games reproducible. Zero means pick one at startup.
	Seed int64 `env:"BRONZE_SEED" envDefault:"0"`

	Logging LoggingConfig `envPrefix:"LOG_"`
}

type LoggingConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"text"`
	// File receives logs while the terminal UI owns stdout.
	File string `env:"FILE" envDefault:"bronze.log"`
}

// ChronicleEnabled reports whether turn narration through Gemini is configured.
func (c *Config) ChronicleEnabled() bool {
	return c.GeminiAPIKey != ""
}

// LoadConfig loads the configuration from a .env file, if present, and the
// environment.
func LoadConfig() (*Config, error) {
	// A missing .env is fine; the environment alone is enough.
	_ = godotenv.Load()
	return parse()
}

func parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Difficulty) {
	case "easy", "normal", "hard":
	default:
		return fmt.Errorf("BRONZE_DIFFICULTY must be easy, normal or hard, got %q", c.Difficulty)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.Logging.Format)
	}
	if c.SaveDir == "" {
		return fmt.Errorf("BRONZE_SAVE_DIR is required")
	}
	return nil
}
