package config

import (
	"fmt"
	"os"
)

type Config struct {
	DatabaseURL string
	ServerAddr  string
	JWTSecret   string
	Env         string
}

func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	addr := os.Getenv("SERVER_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	return &Config{
		DatabaseURL: dbURL,
		ServerAddr:  addr,
		JWTSecret:   secret,
		Env:         env,
	}, nil
}
