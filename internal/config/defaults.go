package config

import (
	"fmt"
	"time"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// PathsDefaultApplier handles input/output directory defaults.
type PathsDefaultApplier struct{}

func (PathsDefaultApplier) Domain() string { return "paths" }

func (PathsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.ContentDir == "" {
		cfg.ContentDir = "src/pages"
	}
	if cfg.TemplatesDir == "" {
		cfg.TemplatesDir = "src/templates"
	}
	if cfg.AssetsDir == "" {
		cfg.AssetsDir = "src/assets"
	}
	if cfg.ScriptsDir == "" {
		cfg.ScriptsDir = "src/scripts"
	}
	if cfg.StylesDir == "" {
		cfg.StylesDir = "src/styles"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "dist"
	}
	if cfg.Passthrough == nil {
		cfg.Passthrough = map[string]string{
			cfg.AssetsDir:                 "_assets",
			cfg.AssetsDir + "/favicon.ico": "favicon.ico",
		}
	}
	return nil
}

// RemoteDefaultApplier handles remote document and HTTP defaults.
type RemoteDefaultApplier struct{}

func (RemoteDefaultApplier) Domain() string { return "remote" }

func (RemoteDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.SpecURL == "" {
		cfg.SpecURL = DefaultSpecURL
	}
	if cfg.HTTP.Timeout <= 0 {
		cfg.HTTP.Timeout = 10 * time.Second
	}
	return nil
}

// RenderDefaultApplier handles site, markdown and highlighting defaults.
type RenderDefaultApplier struct{}

func (RenderDefaultApplier) Domain() string { return "render" }

func (RenderDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Site.Title == "" {
		cfg.Site.Title = "Documentation Site"
	}
	if cfg.Environment == "" {
		cfg.Environment = EnvDevelopment
	} else if env := NormalizeEnvironment(string(cfg.Environment)); env != "" {
		cfg.Environment = env
	}
	if cfg.Highlight.Style == "" {
		cfg.Highlight.Style = "github"
	}
	if cfg.Highlight.CSSPath == "" {
		cfg.Highlight.CSSPath = "_assets/css/highlight.css"
	}
	return nil
}

// ServeDefaultApplier handles preview server and logging defaults.
type ServeDefaultApplier struct{}

func (ServeDefaultApplier) Domain() string { return "serve" }

func (ServeDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Serve.Port == 0 {
		cfg.Serve.Port = 1316
	}
	if cfg.Serve.RefreshInterval < 0 {
		cfg.Serve.RefreshInterval = 0
	}
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	return nil
}

var defaultAppliers = []DefaultApplier{
	PathsDefaultApplier{},
	RemoteDefaultApplier{},
	RenderDefaultApplier{},
	ServeDefaultApplier{},
}

// ApplyDefaults runs every domain applier in order.
func ApplyDefaults(cfg *Config) error {
	for _, applier := range defaultAppliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("apply %s defaults: %w", applier.Domain(), err)
		}
	}
	return nil
}
