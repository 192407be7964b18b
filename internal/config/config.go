// internal/config/config.go
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config carries the process configuration. Everything comes from the
// environment, optionally seeded from a .env file in development.
type Config struct {
	Port           string
	AllowedOrigin  string
	VocabularyFile string
}

// Load reads .env when present, then the environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigin:  getEnv("CORS_ALLOW_ORIGIN", "*"),
		VocabularyFile: os.Getenv("VOCABULARY_FILE"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
