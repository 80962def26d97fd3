// Package openmfe loads the micro-frontend manifest that catalog pages render.
package openmfe

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitegen/internal/config"
	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/remote"
)

// Manifest is the decoded micro-frontend manifest.
type Manifest struct {
	Name        string      `yaml:"name" json:"name"`
	Version     string      `yaml:"version,omitempty" json:"version,omitempty"`
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
	URL         string      `yaml:"url,omitempty" json:"url,omitempty"`
	Icon        string      `yaml:"icon,omitempty" json:"icon,omitempty"`
	Attributes  []Attribute `yaml:"attributes,omitempty" json:"attributes,omitempty"`
	Events      []Event     `yaml:"events,omitempty" json:"events,omitempty"`
	Examples    []Example   `yaml:"examples,omitempty" json:"examples,omitempty"`

	// Raw keeps every top-level key, including ones not mapped above.
	Raw map[string]any `yaml:"-" json:"-"`

	// Source is the URL the manifest was loaded from.
	Source string `yaml:"-" json:"-"`
}

// Attribute describes an input attribute of the micro frontend's custom element.
type Attribute struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Type        string `yaml:"type,omitempty" json:"type,omitempty"`
	Required    bool   `yaml:"required,omitempty" json:"required,omitempty"`
	Default     any    `yaml:"default,omitempty" json:"default,omitempty"`
	Example     any    `yaml:"example,omitempty" json:"example,omitempty"`
}

// Event describes an event emitted by the micro frontend.
type Event struct {
	Name        string         `yaml:"name" json:"name"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Schema      map[string]any `yaml:"schema,omitempty" json:"schema,omitempty"`
}

// Example is a documented attribute combination.
type Example struct {
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Attributes  map[string]any `yaml:"attributes,omitempty" json:"attributes,omitempty"`
}

// Parse decodes manifest YAML.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if err := yaml.Unmarshal(data, &m.Raw); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if m.Raw == nil {
		return nil, fmt.Errorf("decode manifest: empty document")
	}
	if m.Name == "" {
		return nil, fmt.Errorf("manifest has no name")
	}
	return &m, nil
}

// Loader fetches the configured manifest.
type Loader struct {
	url    string
	client *http.Client
}

// NewLoader creates a Loader for cfg.ManifestURL.
func NewLoader(cfg *config.Config) *Loader {
	return &Loader{url: cfg.ManifestURL, client: remote.NewHTTPClient(cfg.HTTP.Timeout)}
}

// WithClient swaps the HTTP client.
func (l *Loader) WithClient(c *http.Client) *Loader {
	l.client = c
	return l
}

// Load fetches and decodes the manifest. It returns (nil, nil) when no manifest URL is configured.
func (l *Loader) Load(ctx context.Context) (*Manifest, error) {
	if l.url == "" {
		return nil, nil
	}
	data, err := remote.Get(ctx, l.client, l.url)
	if err != nil {
		return nil, err
	}
	m, err := Parse(data)
	if err != nil {
		return nil, serrors.ParseFailed(l.url, err)
	}
	m.Source = l.url
	slog.Info("Loaded micro-frontend manifest", logfields.URL(l.url), slog.String("name", m.Name))
	return m, nil
}
