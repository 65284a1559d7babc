// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string // "json" or "console"

	// DatabaseURL enables the user-profile store; empty means join
	// payloads are trusted as-is.
	DatabaseURL string

	// RoundTimer turns on the server-side round timer. Off by default:
	// roundTime is advisory and clients drive round ends themselves.
	RoundTimer bool
}

// Load reads the environment. A missing .env file is not an error.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddr:    getEnv("HTTP_ADDR", ":4000"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "console"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RoundTimer:  getEnvBool("ROUND_TIMER", false),
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
