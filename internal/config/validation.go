package config

import (
	"net/url"
	"path/filepath"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

// Validate checks a configuration after defaults have been applied.
func Validate(cfg *Config) error {
	if err := validateURL("spec_url", cfg.SpecURL, true); err != nil {
		return err
	}
	if err := validateURL("manifest_url", cfg.ManifestURL, false); err != nil {
		return err
	}
	if NormalizeEnvironment(string(cfg.Environment)) == "" {
		return serrors.ValidationFailed("environment", "must be production or development")
	}
	if cfg.Serve.Port < 1 || cfg.Serve.Port > 65535 {
		return serrors.ValidationFailed("serve.port", "must be between 1 and 65535")
	}
	if sameDir(cfg.ContentDir, cfg.OutputDir) {
		return serrors.ValidationFailed("output_dir", "must differ from content_dir")
	}
	for src, dst := range cfg.Passthrough {
		if filepath.IsAbs(dst) || !filepath.IsLocal(filepath.Clean(dst)) {
			return serrors.ValidationFailed("passthrough."+src, "destination must stay inside output_dir")
		}
	}
	if !filepath.IsLocal(filepath.Clean(cfg.Highlight.CSSPath)) {
		return serrors.ValidationFailed("highlight.css_path", "must stay inside output_dir")
	}
	return nil
}

func validateURL(field, raw string, required bool) error {
	if raw == "" {
		if required {
			return serrors.ValidationFailed(field, "is required")
		}
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return serrors.ValidationFailed(field, err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return serrors.ValidationFailed(field, "unsupported URL scheme: "+u.Scheme)
	}
	if u.Host == "" {
		return serrors.ValidationFailed(field, "missing host")
	}
	return nil
}

func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
