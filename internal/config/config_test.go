package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

func TestParse_AppliesDefaults(t *testing.T) {
	t.Setenv(EnvVarEnvironment, "")
	t.Setenv(EnvVarSpecURL, "")
	t.Setenv(EnvVarLogLevel, "")

	cfg, err := Parse([]byte("site:\n  title: OpenMFE\n"))
	require.NoError(t, err)

	require.Equal(t, "src/pages", cfg.ContentDir)
	require.Equal(t, "src/templates", cfg.TemplatesDir)
	require.Equal(t, "dist", cfg.OutputDir)
	require.Equal(t, DefaultSpecURL, cfg.SpecURL)
	require.Equal(t, EnvDevelopment, cfg.Environment)
	require.Equal(t, 10*time.Second, cfg.HTTP.Timeout)
	require.Equal(t, 1316, cfg.Serve.Port)
	require.Equal(t, "github", cfg.Highlight.Style)
	require.Equal(t, "_assets/css/highlight.css", cfg.Highlight.CSSPath)
	require.Equal(t, map[string]string{
		"src/assets":             "_assets",
		"src/assets/favicon.ico": "favicon.ico",
	}, cfg.Passthrough)
	require.True(t, cfg.Markdown.AllowHTML())
	require.False(t, cfg.Navigation.SegmentAware)
	require.Equal(t, LogLevelInfo, cfg.Logging.Level)
	require.Equal(t, LogFormatText, cfg.Logging.Format)
}

func TestParse_ExplicitValues(t *testing.T) {
	t.Setenv(EnvVarEnvironment, "")
	t.Setenv(EnvVarSpecURL, "")

	yml := `
content_dir: content
output_dir: public
spec_url: https://example.com/spec/v2.md
environment: prod
markdown:
  html: false
navigation:
  segment_aware: true
http:
  timeout: 3s
serve:
  port: 8080
  refresh_interval: 5m
logging:
  level: debug
  format: json
`
	t.Setenv(EnvVarLogLevel, "")
	cfg, err := Parse([]byte(yml))
	require.NoError(t, err)

	require.Equal(t, "content", cfg.ContentDir)
	require.Equal(t, "public", cfg.OutputDir)
	require.Equal(t, "https://example.com/spec/v2.md", cfg.SpecURL)
	require.True(t, cfg.IsProduction())
	require.False(t, cfg.Markdown.AllowHTML())
	require.True(t, cfg.Navigation.SegmentAware)
	require.Equal(t, 3*time.Second, cfg.HTTP.Timeout)
	require.Equal(t, 8080, cfg.Serve.Port)
	require.Equal(t, 5*time.Minute, cfg.Serve.RefreshInterval)
	require.Equal(t, LogLevelDebug, cfg.Logging.Level)
	require.Equal(t, LogFormatJSON, cfg.Logging.Format)
}

func TestParse_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv(EnvVarEnvironment, "")
	t.Setenv(EnvVarSpecURL, "")
	t.Setenv("SITE_TITLE", "From Env")

	cfg, err := Parse([]byte("site:\n  title: ${SITE_TITLE}\n"))
	require.NoError(t, err)
	require.Equal(t, "From Env", cfg.Site.Title)
}

func TestParse_EnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvVarEnvironment, "production")
	t.Setenv(EnvVarLogLevel, "warn")
	t.Setenv(EnvVarSpecURL, "https://mirror.example.com/spec.md")

	cfg, err := Parse([]byte("environment: development\n"))
	require.NoError(t, err)
	require.Equal(t, EnvProduction, cfg.Environment)
	require.Equal(t, LogLevelWarn, cfg.Logging.Level)
	require.Equal(t, "https://mirror.example.com/spec.md", cfg.SpecURL)
}

func TestParse_ValidationErrors(t *testing.T) {
	t.Setenv(EnvVarEnvironment, "")
	t.Setenv(EnvVarSpecURL, "")

	cases := map[string]string{
		"bad spec scheme":      "spec_url: ftp://example.com/spec.md\n",
		"bad manifest url":     "manifest_url: example.com/manifest.yaml\n",
		"unknown environment":  "environment: staging\n",
		"port out of range":    "serve:\n  port: 70000\n",
		"output equals source": "content_dir: site\noutput_dir: ./site\n",
		"escaping passthrough": "passthrough:\n  src/assets: ../outside\n",
	}
	for name, yml := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(yml))
			require.Error(t, err)
			require.True(t, serrors.IsCategory(err, serrors.CategoryValidation))
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("site: [unterminated\n"))
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.True(t, serrors.IsCategory(err, serrors.CategoryConfig))
}

func TestInit_WritesLoadableConfig(t *testing.T) {
	t.Setenv(EnvVarEnvironment, "")
	t.Setenv(EnvVarSpecURL, "")
	path := filepath.Join(t.TempDir(), "sitegen.yaml")

	require.NoError(t, Init(path, false))
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "OpenMFE", cfg.Site.Title)
	require.Equal(t, DefaultSpecURL, cfg.SpecURL)
	require.NotEmpty(t, cfg.ManifestURL)

	err = Init(path, false)
	require.Error(t, err)
	require.NoError(t, Init(path, true))
}

func TestLoadEnvFiles_DoesNotOverrideProcessEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SITEGEN_TEST_A=file\nSITEGEN_TEST_B=file\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("SITEGEN_TEST_A", "process")
	t.Setenv("SITEGEN_TEST_B", "")
	require.NoError(t, os.Unsetenv("SITEGEN_TEST_B"))

	loadEnvFiles()

	require.Equal(t, "process", os.Getenv("SITEGEN_TEST_A"))
	require.Equal(t, "file", os.Getenv("SITEGEN_TEST_B"))
}

func TestNormalizers(t *testing.T) {
	require.Equal(t, EnvProduction, NormalizeEnvironment(" PROD "))
	require.Equal(t, EnvDevelopment, NormalizeEnvironment("dev"))
	require.Equal(t, Environment(""), NormalizeEnvironment("qa"))
	require.Equal(t, LogLevelWarn, NormalizeLogLevel("WARNING"))
	require.Equal(t, LogLevelInfo, NormalizeLogLevel("loud"))
	require.Equal(t, LogFormatJSON, NormalizeLogFormat("JSON"))
	require.Equal(t, LogFormatText, NormalizeLogFormat(""))
}
