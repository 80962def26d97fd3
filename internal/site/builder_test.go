package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/config"
	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

const manifestYAML = `name: current-weather
version: 1.0.0
attributes:
  - name: city
    required: true
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

// newSite lays out a small project and a server hosting the specification document and manifest.
func newSite(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "src/pages/index.md"), "---\ntitle: Home\npriority: 0.5\nlayout: base.html\n---\n# Welcome\n\nSee the [specification](/specification/).\n")
	writeFile(t, filepath.Join(root, "src/pages/specification.md"), "---\ntitle: Specification\npriority: 1\nlayout: base.html\n---\n{{ .Specification.Text }}\n")
	writeFile(t, filepath.Join(root, "src/pages/catalog.md"), "---\ntitle: Catalog\npriority: 2\nlayout: base.html\n---\nBroken [link](/nowhere/).\n")
	writeFile(t, filepath.Join(root, "src/pages/catalog/weather.html"), "---\ntitle: Weather\npriority: 1\n---\n<p>{{ .OpenMFE.Name }}</p>\n")
	writeFile(t, filepath.Join(root, "src/pages/404.html"), "---\npermalink: /404.html\n---\n<h1>Not found</h1>\n")
	writeFile(t, filepath.Join(root, "src/pages/logo.svg"), "<svg/>")
	writeFile(t, filepath.Join(root, "src/templates/base.html"),
		`<!DOCTYPE html><html><head><title>{{ .Page.Title }}</title></head><body><nav>{{ range .Navigation.Entries }}<a href="{{ .Permalink }}">{{ .Title }}</a>{{ end }}</nav><main>{{ .Content }}</main></body></html>`)
	writeFile(t, filepath.Join(root, "src/assets/favicon.ico"), "ico")
	writeFile(t, filepath.Join(root, "src/assets/css/site.css"), "body { margin: 0 }")
	writeFile(t, filepath.Join(root, "src/scripts/a.js"), "console.log(\"a\")")
	writeFile(t, filepath.Join(root, "src/scripts/b/b.js"), "console.log(\"b\");\n")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1.1/specification.md":
			_, _ = w.Write([]byte("## Manifest\n\nThe manifest describes a micro frontend.\n"))
		case "/manifest.yaml":
			_, _ = w.Write([]byte(manifestYAML))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.ContentDir = filepath.Join(root, "src/pages")
	cfg.TemplatesDir = filepath.Join(root, "src/templates")
	cfg.AssetsDir = filepath.Join(root, "src/assets")
	cfg.ScriptsDir = filepath.Join(root, "src/scripts")
	cfg.OutputDir = filepath.Join(root, "dist")
	cfg.SpecURL = server.URL + "/v1.1/specification.md"
	cfg.ManifestURL = server.URL + "/manifest.yaml"
	cfg.Environment = config.EnvDevelopment
	cfg.Site.Title = "OpenMFE"
	cfg.Passthrough = map[string]string{}
	cfg.Passthrough[cfg.AssetsDir] = "_assets"
	cfg.Passthrough[filepath.Join(cfg.AssetsDir, "favicon.ico")] = "favicon.ico"
	cfg.Passthrough[filepath.Join(root, "missing")] = "missing"
	return cfg
}

func TestBuild_Development(t *testing.T) {
	cfg := newSite(t)
	reg := prom.NewRegistry()

	report, err := NewBuilder(cfg).WithRecorder(metrics.NewPrometheusRecorder(reg)).Build(t.Context())
	require.NoError(t, err)

	require.Equal(t, OutcomeSuccess, report.Outcome)
	require.NotEmpty(t, report.ID)
	require.Equal(t, 5, report.Pages)
	for _, stage := range []StageName{StageClean, StageLoad, StageNavigation, StageSpecification, StageManifest, StageRender, StagePassthrough, StageHighlightCSS, StageScripts} {
		require.Contains(t, report.StageDurations, stage)
	}

	out := cfg.OutputDir
	home := readFile(t, filepath.Join(out, "index.html"))
	require.Contains(t, home, "<h1>Welcome</h1>")
	require.Contains(t, home, "\n    <title>Home</title>\n")
	require.Less(t, strings.Index(home, `href="/"`), strings.Index(home, `href="/specification/"`))
	require.Less(t, strings.Index(home, `href="/specification/"`), strings.Index(home, `href="/catalog/"`))

	spec := readFile(t, filepath.Join(out, "specification/index.html"))
	require.Contains(t, spec, "<h2>Manifest</h2>")

	require.Contains(t, readFile(t, filepath.Join(out, "catalog/weather/index.html")), "<p>current-weather</p>")
	require.Contains(t, readFile(t, filepath.Join(out, "catalog/index.html")), "Broken")
	require.Contains(t, readFile(t, filepath.Join(out, "404.html")), "Not found")
	require.NoFileExists(t, filepath.Join(out, "logo/index.html"))

	require.Equal(t, "ico", readFile(t, filepath.Join(out, "favicon.ico")))
	require.Equal(t, "ico", readFile(t, filepath.Join(out, "_assets/favicon.ico")))
	require.Equal(t, "body { margin: 0 }", readFile(t, filepath.Join(out, "_assets/css/site.css")))
	require.Contains(t, readFile(t, filepath.Join(out, "_assets/css/highlight.css")), ".chroma")
	require.Equal(t, "console.log(\"a\")\nconsole.log(\"b\");\n", readFile(t, filepath.Join(out, ScriptBundlePath)))

	require.Len(t, report.Warnings, 1)
	require.Contains(t, report.Warnings[0], "/nowhere/")

	mfs, err := reg.Gather()
	require.NoError(t, err)
	var outcomes float64
	for _, mf := range mfs {
		if mf.GetName() == "sitegen_build_outcomes_total" {
			for _, m := range mf.GetMetric() {
				outcomes += m.GetCounter().GetValue()
			}
		}
	}
	require.InDelta(t, 1, outcomes, 0)
}

func TestBuild_ProductionMinifies(t *testing.T) {
	cfg := newSite(t)
	cfg.Environment = config.EnvProduction

	_, err := NewBuilder(cfg).Build(t.Context())
	require.NoError(t, err)

	home := readFile(t, filepath.Join(cfg.OutputDir, "index.html"))
	require.NotContains(t, home, "\n    <title>")
	require.Contains(t, home, "<title>Home</title>")

	bundle := readFile(t, filepath.Join(cfg.OutputDir, ScriptBundlePath))
	require.NotContains(t, bundle, "\n\n")
	require.Contains(t, bundle, `console.log("a")`)
}

func TestBuild_CleansPreviousOutput(t *testing.T) {
	cfg := newSite(t)
	stale := filepath.Join(cfg.OutputDir, "stale.html")
	writeFile(t, stale, "old")

	_, err := NewBuilder(cfg).Build(t.Context())
	require.NoError(t, err)
	require.NoFileExists(t, stale)
}

func TestBuild_SpecificationFailureAborts(t *testing.T) {
	cfg := newSite(t)
	cfg.SpecURL = strings.Replace(cfg.SpecURL, "v1.1", "v9.9", 1)

	report, err := NewBuilder(cfg).Build(t.Context())
	require.Error(t, err)
	require.True(t, serrors.IsCategory(err, serrors.CategoryBuild))
	require.True(t, serrors.IsCategory(err, serrors.CategoryNetwork))
	require.Equal(t, OutcomeFailed, report.Outcome)
	require.NoFileExists(t, filepath.Join(cfg.OutputDir, "index.html"))
}

func TestBuild_DuplicatePermalink(t *testing.T) {
	cfg := newSite(t)
	writeFile(t, filepath.Join(cfg.ContentDir, "clash.md"), "---\npermalink: /specification/\n---\nclash\n")

	_, err := NewBuilder(cfg).Build(t.Context())
	require.ErrorContains(t, err, "share permalink /specification/")
}

func TestBuild_Canceled(t *testing.T) {
	cfg := newSite(t)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	report, err := NewBuilder(cfg).Build(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, OutcomeCanceled, report.Outcome)
}

func TestOutputPath(t *testing.T) {
	cases := map[string]string{
		"/":                  "index.html",
		"":                   "index.html",
		"/catalog/":          "catalog/index.html",
		"/catalog/weather/":  "catalog/weather/index.html",
		"/404.html":          "404.html",
		"/feed.xml":          "feed.xml",
		"/about":             "about/index.html",
		"/../../etc/":        "etc/index.html",
		"/docs//nested///x/": "docs/nested/x/index.html",
	}
	for permalink, want := range cases {
		got, err := OutputPath(permalink)
		require.NoError(t, err, permalink)
		require.Equal(t, want, got, permalink)
	}
}
