package config

import (
	"errors"
	"log/slog"
	"time"
)

const defaultJWTSecret = "your-secret-key-change-this-in-production"

type JWTConfig struct {
	Secret     string        `env:"JWT_SECRET" env-default:"your-secret-key-change-this-in-production"`
	Expiration time.Duration `env:"JWT_EXPIRATION" env-default:"24h"`
}

func (c JWTConfig) Validate() error {
	if c.Secret == "" {
		return errors.New("config: JWT_SECRET must not be empty")
	}
	if c.Expiration <= 0 {
		return errors.New("config: JWT_EXPIRATION must be positive")
	}
	if c.Secret == defaultJWTSecret {
		slog.Warn("JWT_SECRET is using the built-in default")
	}
	return nil
}
