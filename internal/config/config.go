package config

import (
	"errors"
	"fmt"
	"os"
)

// Config is the process configuration, loaded once in main and passed by
// reference. No ambient singletons.
type Config struct {
	DBDSN         string // order store URL/credentials
	MPAccessToken string // gateway credential
	AppBaseURL    string // public base for callback and notification links
	Port          string
}

// Load reads the recognized environment options. The store and gateway
// credentials are mandatory; startup must fail fast without them.
func Load() (Config, error) {
	cfg := Config{
		DBDSN:         os.Getenv("DB_DSN"),
		MPAccessToken: os.Getenv("MP_ACCESS_TOKEN"),
		AppBaseURL:    os.Getenv("APP_BASE_URL"),
		Port:          os.Getenv("PORT"),
	}

	var missing []string
	if cfg.DBDSN == "" {
		missing = append(missing, "DB_DSN")
	}
	if cfg.MPAccessToken == "" {
		missing = append(missing, "MP_ACCESS_TOKEN")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %v", ErrMissingEnv, missing)
	}

	if cfg.Port == "" {
		cfg.Port = "3000"
	}
	if cfg.AppBaseURL == "" {
		cfg.AppBaseURL = "http://localhost:" + cfg.Port
	}
	return cfg, nil
}

var ErrMissingEnv = errors.New("missing required environment variables")
