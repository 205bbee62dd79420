package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config carries the external-provider credentials. It is loaded once in
// main and passed into constructors; nothing reads the environment after
// startup.
type Config struct {
	PlacesAPIKey    string
	GeocodingAPIKey string
	AllowedOrigins  []string
}

// Load reads .env (when present) and builds the config from the
// environment. The geocoding key falls back to the places key since both
// providers accept the same credential.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		PlacesAPIKey:    os.Getenv("PLACES_API_KEY"),
		GeocodingAPIKey: os.Getenv("GEOCODING_API_KEY"),
		AllowedOrigins:  []string{"*"},
	}

	if cfg.GeocodingAPIKey == "" {
		cfg.GeocodingAPIKey = cfg.PlacesAPIKey
	}

	if origin := os.Getenv("ALLOWED_ORIGIN"); origin != "" {
		cfg.AllowedOrigins = []string{origin}
	}

	return cfg
}
