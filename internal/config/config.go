package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the process configuration, loaded from the environment.
type Config struct {
	Addr      string `env:"ADDR" envDefault:":8080"`
	DBPath    string `env:"DB_PATH" envDefault:"users.db"`
	StaticDir string `env:"STATIC_DIR" envDefault:"web"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
