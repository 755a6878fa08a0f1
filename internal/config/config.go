// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

// Config holds everything the server needs at startup.
type Config struct {
	// GeminiAPIKey authenticates against the Gemini API.
	GeminiAPIKey string `env:"GEMINI_API_KEY"`

	// Model is the Gemini model identifier.
	Model string `env:"MODEL" envDefault:"gemini-2.5-flash"`

	// Port the HTTP server listens on.
	Port string `env:"PORT" envDefault:"3003"`

	// SearchBaseURL is the search provider's HTML endpoint.
	SearchBaseURL string `env:"SEARCH_BASE_URL" envDefault:"https://duckduckgo.com/html/"`

	// SearchTimeout bounds a single search request.
	SearchTimeout time.Duration `env:"SEARCH_TIMEOUT" envDefault:"30s"`

	// ModelTimeout bounds a single model round-trip, including streaming.
	ModelTimeout time.Duration `env:"MODEL_TIMEOUT" envDefault:"120s"`
}

// Load reads .env if present, then parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("config: GEMINI_API_KEY is required")
	}

	return cfg, nil
}
