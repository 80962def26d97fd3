package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables read by the generator.
const (
	EnvVarEnvironment = "SITEGEN_ENV"
	EnvVarLogLevel    = "SITEGEN_LOG_LEVEL"
	EnvVarSpecURL     = "SITEGEN_SPEC_URL"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads environment variables from .env/.env.local files.
// It stops at the first file that loads; existing process variables are never overwritten.
func loadEnvFiles() {
	for _, envPath := range envFiles {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			fmt.Fprintf(os.Stderr, "Note: %s could not be loaded: %v\n", envPath, err)
			continue
		}
		slog.Debug("Loaded environment variables", "path", envPath)
		return
	}
}

// applyEnvOverrides applies environment switches on top of file values.
// Precedence: environment variable > config file > default.
func applyEnvOverrides(cfg *Config) {
	if raw := os.Getenv(EnvVarEnvironment); raw != "" {
		if env := NormalizeEnvironment(raw); env != "" {
			cfg.Environment = env
		} else {
			slog.Warn("Ignoring invalid environment value", "var", EnvVarEnvironment, "value", raw)
		}
	}
	if raw := os.Getenv(EnvVarLogLevel); raw != "" {
		cfg.Logging.Level = NormalizeLogLevel(raw)
	}
	if raw := os.Getenv(EnvVarSpecURL); raw != "" {
		cfg.SpecURL = raw
	}
}
