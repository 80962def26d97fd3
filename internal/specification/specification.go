// Package specification loads the version-pinned specification document that
// the site renders as page content.
package specification

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/remote"
)

// Document is a fetched specification.
type Document struct {
	Source  string
	Version string
	Text    string
}

// String returns the document text so templates can print it directly.
func (d Document) String() string { return d.Text }

// Fetcher retrieves the specification from a fixed URL.
type Fetcher struct {
	url    string
	client *http.Client
}

// NewFetcher builds a Fetcher from the configured spec URL and HTTP timeout.
func NewFetcher(cfg *config.Config) *Fetcher {
	return &Fetcher{
		url:    cfg.SpecURL,
		client: remote.NewHTTPClient(cfg.HTTP.Timeout),
	}
}

// WithClient swaps the HTTP client (tests, custom transports).
func (f *Fetcher) WithClient(c *http.Client) *Fetcher {
	f.client = c
	return f
}

// Fetch performs a single GET of the specification. Any failure is returned as is.
func (f *Fetcher) Fetch(ctx context.Context) (Document, error) {
	body, err := remote.Get(ctx, f.client, f.url)
	if err != nil {
		return Document{}, err
	}
	doc := Document{Source: f.url, Version: VersionFromURL(f.url), Text: string(body)}
	slog.Info("Loaded specification", logfields.URL(f.url), slog.String("version", doc.Version))
	return doc, nil
}

// Fetch is a convenience wrapper around NewFetcher(cfg).Fetch(ctx).
func Fetch(ctx context.Context, cfg *config.Config) (Document, error) {
	return NewFetcher(cfg).Fetch(ctx)
}

var versionSegment = regexp.MustCompile(`^v\d+(\.\d+)*$`)

// VersionFromURL returns the first path segment that looks like a version tag (v1, v1.1, ...).
func VersionFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	for _, seg := range strings.Split(u.Path, "/") {
		if versionSegment.MatchString(seg) {
			return seg
		}
	}
	return ""
}
