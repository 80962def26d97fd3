package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

// DefaultSpecURL is the version-pinned specification document. Load from tags, not the main branch.
const DefaultSpecURL = "https://raw.githubusercontent.com/openmfe/specification/v1.1/specification.md"

// Config represents the site generator configuration.
type Config struct {
	ContentDir   string `yaml:"content_dir"`
	TemplatesDir string `yaml:"templates_dir"`
	AssetsDir    string `yaml:"assets_dir"`
	ScriptsDir   string `yaml:"scripts_dir"`
	StylesDir    string `yaml:"styles_dir"`
	OutputDir    string `yaml:"output_dir"`

	SpecURL     string `yaml:"spec_url"`
	ManifestURL string `yaml:"manifest_url,omitempty"`

	Environment Environment `yaml:"environment,omitempty"`

	Site        SiteConfig        `yaml:"site"`
	Passthrough map[string]string `yaml:"passthrough,omitempty"` // source path -> destination relative to output_dir
	Markdown    MarkdownConfig    `yaml:"markdown"`
	Highlight   HighlightConfig   `yaml:"highlight"`
	Navigation  NavigationConfig  `yaml:"navigation"`
	HTTP        HTTPConfig        `yaml:"http"`
	Serve       ServeConfig       `yaml:"serve"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// SiteConfig holds site-wide values exposed to templates.
type SiteConfig struct {
	Title       string         `yaml:"title"`
	BaseURL     string         `yaml:"base_url,omitempty"`
	Description string         `yaml:"description,omitempty"`
	Params      map[string]any `yaml:"params,omitempty"`
}

// MarkdownConfig controls the markdown renderer.
type MarkdownConfig struct {
	HTML         *bool `yaml:"html,omitempty"`          // allow raw HTML (default true)
	IndentedCode bool  `yaml:"indented_code,omitempty"` // four-space code blocks (default off)
}

// AllowHTML reports whether raw HTML passes through the markdown renderer.
func (m MarkdownConfig) AllowHTML() bool {
	return m.HTML == nil || *m.HTML
}

// HighlightConfig controls syntax highlighting output.
type HighlightConfig struct {
	Style   string `yaml:"style"`
	CSSPath string `yaml:"css_path"` // relative to output_dir
}

// NavigationConfig controls the navigation tree builder.
type NavigationConfig struct {
	// SegmentAware switches child matching from literal slug prefixes to path segments.
	SegmentAware bool `yaml:"segment_aware"`
}

// HTTPConfig configures outbound fetches.
type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// ServeConfig configures the preview server.
type ServeConfig struct {
	Port            int           `yaml:"port"`
	RefreshInterval time.Duration `yaml:"refresh_interval,omitempty"`
	Metrics         bool          `yaml:"metrics"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// Load loads configuration from the specified file, applies defaults and validates it.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, serrors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, serrors.FilesystemFailed("read config", configPath, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, serrors.ConfigInvalid(configPath, err)
	}
	return cfg, nil
}

// Parse decodes YAML configuration (with ${VAR} expansion), applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ApplyDefaults(&cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied, as used when no file exists.
func Default() *Config {
	cfg := &Config{}
	_ = ApplyDefaults(cfg)
	applyEnvOverrides(cfg)
	return cfg
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Default()
	example.Site = SiteConfig{
		Title:       "OpenMFE",
		BaseURL:     "https://openmfe.org",
		Description: "Specification and tooling for self-contained micro frontends",
	}
	example.ManifestURL = "https://demos.lxg.de/current-weather/frontend/openmfe/manifest.yaml"

	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
