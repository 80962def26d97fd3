// Package remote performs the one-shot HTTP GETs used to pull build inputs
// (the specification document, micro-frontend manifests) into a site build.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// MaxResponseBytes bounds the size of a fetched document.
const MaxResponseBytes = 5 * 1024 * 1024

// DefaultTimeout is used when a caller passes a non-positive timeout.
const DefaultTimeout = 10 * time.Second

// NewHTTPClient creates an HTTP client with safe defaults.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return errors.New("too many redirects")
			}
			return nil
		},
	}
}

// Get fetches rawURL once. Transport failures, non-2xx responses and oversized
// bodies are returned as network-category errors; nothing is retried.
func Get(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	if client == nil {
		client = NewHTTPClient(0)
	}
	if err := ValidateURL(rawURL); err != nil {
		return nil, serrors.FetchFailed(rawURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, serrors.FetchFailed(rawURL, fmt.Errorf("build request: %w", err))
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, serrors.FetchFailed(rawURL, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, serrors.HTTPStatus(rawURL, resp.StatusCode)
	}

	limited := io.LimitReader(resp.Body, MaxResponseBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, serrors.FetchFailed(rawURL, fmt.Errorf("read response: %w", err))
	}
	if len(data) > MaxResponseBytes {
		return nil, serrors.FetchFailed(rawURL, errors.New("response too large"))
	}

	slog.Debug("Fetched remote document",
		logfields.URL(rawURL),
		logfields.Status(resp.StatusCode),
		slog.Int("bytes", len(data)),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return data, nil
}

// ValidateURL accepts absolute http(s) URLs only.
func ValidateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("URL has no host")
	}
	return nil
}
