package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeySlug       = "slug"
	KeyPermalink  = "permalink"
	KeyURL        = "url"
	KeyStatus     = "status"
	KeyPages      = "pages"
	KeyOutput     = "output"
	KeyEnv        = "env"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Slug(s string) slog.Attr          { return slog.String(KeySlug, s) }
func Permalink(p string) slog.Attr     { return slog.String(KeyPermalink, p) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }
func Pages(n int) slog.Attr            { return slog.Int(KeyPages, n) }
func Output(dir string) slog.Attr      { return slog.String(KeyOutput, dir) }
func Env(mode string) slog.Attr        { return slog.String(KeyEnv, mode) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
