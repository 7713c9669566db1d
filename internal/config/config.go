package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string `env:"PORT" envDefault:"3000"`
	MySQLDSN   string `env:"MYSQL_DSN" envDefault:"user:password@tcp(localhost:3306)/carpool?charset=utf8mb4&parseTime=True&loc=UTC"`
	RedisAddr  string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB    int    `env:"REDIS_DB" envDefault:"0"`
	RedisPass  string `env:"REDIS_PASSWORD"`
	JWTSecret  string `env:"JWT_SECRET" envDefault:"change-me"`

	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	AdminName     string `env:"ADMIN_NAME" envDefault:"Admin User"`

	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"false"`

	// ResetDB drops every table at startup before migrating.
	ResetDB bool `env:"RESET_DB" envDefault:"false"`

	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogDevelopment bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`

	// Per-IP limit applied to the /auth routes.
	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT" envDefault:"5"`
	AuthRateBurst int     `env:"AUTH_RATE_BURST" envDefault:"10"`

	SwaggerHost string `env:"SWAGGER_HOST"`
}

// Load reads an optional .env file and builds Config from the environment.
// Variables already present in the environment win over the file.
func Load(files ...string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load(files...)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
