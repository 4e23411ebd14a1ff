package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	Port          int
	Env           string
	DatabaseURL   string
	SessionSecret string
	Timezone      string

	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeSeconds int
	DBConnMaxIdleTimeSeconds int

	location *time.Location
}

func Default() Config {
	return Config{
		Port:                     8080,
		Env:                      "development",
		Timezone:                 "America/Sao_Paulo",
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           10,
		DBConnMaxLifetimeSeconds: 300,
		DBConnMaxIdleTimeSeconds: 60,
	}
}

// Load builds the runtime configuration from the environment. SESSION_SECRET
// is required; everything else has a default.
func Load() (Config, error) {
	cfg := Default()
	if raw := os.Getenv("PORT"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.Port = value
		}
	}
	if raw := os.Getenv("APP_ENV"); raw != "" {
		cfg.Env = raw
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	if cfg.SessionSecret == "" {
		return cfg, errors.New("SESSION_SECRET is not set")
	}
	if raw := os.Getenv("TIMEZONE"); raw != "" {
		cfg.Timezone = raw
	}
	if raw := os.Getenv("DB_MAX_OPEN_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxOpenConns = value
		}
	}
	if raw := os.Getenv("DB_MAX_IDLE_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxIdleConns = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_LIFETIME_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxLifetimeSeconds = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_IDLE_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxIdleTimeSeconds = value
		}
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return cfg, err
	}
	cfg.location = loc
	return cfg, nil
}

// Location returns the timezone used for calendar-day bucketing. Falls back
// to UTC when Load was bypassed (tests building Config literals).
func (c Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// WithLocation returns a copy of c pinned to loc.
func (c Config) WithLocation(loc *time.Location) Config {
	c.location = loc
	return c
}

// Production reports whether the service runs in production mode (controls
// the Secure flag on session cookies).
func (c Config) Production() bool {
	return c.Env == "production"
}
