package config

import (
	"fmt"

	env "github.com/caarlos0/env/v11"
)

// Config is loaded from the environment. DATABASE_URL may be empty only in
// demo mode, where the server runs on the in-memory store instead of
// Postgres.
type Config struct {
	DatabaseURL    string  `env:"DATABASE_URL"`
	Port           int     `env:"PORT" envDefault:"8080"`
	AllowedOrigins string  `env:"ALLOWED_ORIGINS" envDefault:"*"`
	LogLevel       string  `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv         string  `env:"APP_ENV" envDefault:"production"`
	OpenAIAPIKey   string  `env:"OPENAI_API_KEY"`
	MarkupFactor   float64 `env:"MARKUP_FACTOR" envDefault:"1.5"`
}

// Demo reports whether the server should run on the in-memory store.
func (c *Config) Demo() bool { return c.AppEnv == "demo" }

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if cfg.DatabaseURL == "" && !cfg.Demo() {
		return nil, fmt.Errorf("config.Load: DATABASE_URL is required unless APP_ENV=demo")
	}
	if cfg.MarkupFactor <= 0 {
		return nil, fmt.Errorf("config.Load: MARKUP_FACTOR must be positive, got %v", cfg.MarkupFactor)
	}
	return &cfg, nil
}
