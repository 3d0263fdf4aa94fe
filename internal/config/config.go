package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort              int
	DatabasePath            string
	JWTSecret               string
	TokenTTLHours           int
	AllowedOrigins          []string
	ReminderIntervalMinutes int
}

// Load loads configuration from the environment (and an optional .env file)
// or sets defaults.
func Load() (*Config, error) {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, err
	}

	ttl, err := strconv.Atoi(getEnv("TOKEN_TTL_HOURS", "24"))
	if err != nil {
		return nil, err
	}

	reminder, err := strconv.Atoi(getEnv("REMINDER_INTERVAL_MINUTES", "15"))
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:              port,
		DatabasePath:            getEnv("DATABASE_PATH", "./taskdeck.db"),
		JWTSecret:               getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTLHours:           ttl,
		AllowedOrigins:          strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		ReminderIntervalMinutes: reminder,
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
