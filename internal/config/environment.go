package config

import "strings"

// Environment selects HTML post-processing: minify for production, beautify for development.
type Environment string

const (
	EnvProduction  Environment = "production"
	EnvDevelopment Environment = "development"
)

// NormalizeEnvironment returns the canonical Environment or "" for unknown values.
func NormalizeEnvironment(raw string) Environment {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return EnvProduction
	case "development", "dev":
		return EnvDevelopment
	default:
		return ""
	}
}

// IsProduction reports whether the configuration targets a production build.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}
