package pages

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_ReadsPagesInPathOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.md", "---\ntitle: Home\npriority: 1\n---\nWelcome\n")
	writeFile(t, dir, "guide/index.md", "---\ntitle: Guide\npriority: 2\n---\nGuide body\n")
	writeFile(t, dir, "guide/setup.md", "---\ntitle: Setup\npriority: 1\nlayout: doc.html\ncustom: true\n---\nSetup body\n")
	writeFile(t, dir, "about.html", "<p>no frontmatter</p>\n")
	writeFile(t, dir, ".hidden.md", "---\ntitle: Hidden\npriority: 1\n---\n")
	writeFile(t, dir, ".git/config", "ignored")

	all, err := Load(dir)
	require.NoError(t, err)

	slugs := make([]string, 0, len(all))
	for _, p := range all {
		slugs = append(slugs, p.Slug)
	}
	require.Equal(t, []string{"about", "guide/", "guide/setup", ""}, slugs)
	for i, p := range all {
		require.Equal(t, i, p.Order)
	}

	setup := all[2]
	require.Equal(t, "Setup", setup.Title)
	require.True(t, setup.HasPriority)
	require.InDelta(t, 1.0, setup.Priority, 0)
	require.Equal(t, "doc.html", setup.Layout)
	require.Equal(t, "Setup body\n", setup.Content)
	require.Equal(t, true, setup.Params["custom"])
	require.Equal(t, "/guide/setup/", setup.Permalink)
	require.NotEmpty(t, setup.Fingerprint)
	require.Equal(t, "md", setup.Ext())

	guide := all[1]
	require.Equal(t, "/guide/", guide.Permalink)

	about := all[0]
	require.False(t, about.Navigable())
	require.Equal(t, "<p>no frontmatter</p>\n", about.Content)
}

func TestParse_PriorityHandling(t *testing.T) {
	cases := []struct {
		name      string
		content   string
		navigable bool
		priority  float64
	}{
		{"integer", "---\ntitle: A\npriority: 3\n---\n", true, 3},
		{"float", "---\ntitle: A\npriority: 1.5\n---\n", true, 1.5},
		{"zero", "---\ntitle: A\npriority: 0\n---\n", false, 0},
		{"zero float", "---\ntitle: A\npriority: 0.0\n---\n", false, 0},
		{"zero string", "---\ntitle: A\npriority: \"0\"\n---\n", true, 0},
		{"negative", "---\ntitle: A\npriority: -1\n---\n", true, -1},
		{"numeric string", "---\ntitle: A\npriority: \"2\"\n---\n", true, 2},
		{"non numeric", "---\ntitle: A\npriority: high\n---\n", false, 0},
		{"missing priority", "---\ntitle: A\n---\n", false, 0},
		{"missing title", "---\npriority: 1\n---\n", false, 1},
		{"blank title", "---\ntitle: \"  \"\npriority: 1\n---\n", false, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Parse("pages", "pages/a.md", []byte(tc.content))
			require.NoError(t, err)
			require.Equal(t, tc.navigable, p.Navigable())
			require.InDelta(t, tc.priority, p.Priority, 0)
		})
	}
}

func TestParse_TitleHandling(t *testing.T) {
	cases := []struct {
		name    string
		content string
		title   string
	}{
		{"string", "---\ntitle: \" Guide \"\npriority: 1\n---\n", "Guide"},
		{"integer", "---\ntitle: 2024\npriority: 1\n---\n", "2024"},
		{"float", "---\ntitle: 1.5\npriority: 1\n---\n", "1.5"},
		{"true", "---\ntitle: true\npriority: 1\n---\n", "true"},
		{"false", "---\ntitle: false\npriority: 1\n---\n", ""},
		{"zero", "---\ntitle: 0\npriority: 1\n---\n", ""},
		{"list", "---\ntitle: [a, b]\npriority: 1\n---\n", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Parse("pages", "pages/a.md", []byte(tc.content))
			require.NoError(t, err)
			require.Equal(t, tc.title, p.Title)
			require.Equal(t, tc.title != "", p.Navigable())
		})
	}
}

func TestParse_PermalinkOverride(t *testing.T) {
	p, err := Parse("pages", "pages/error.md", []byte("---\npermalink: /404.html\n---\nNot found\n"))
	require.NoError(t, err)
	require.Equal(t, "error", p.Slug)
	require.Equal(t, "/404.html", p.Permalink)
}

func TestParse_FingerprintTracksContent(t *testing.T) {
	a, err := Parse("pages", "pages/a.md", []byte("---\ntitle: A\n---\nOne\n"))
	require.NoError(t, err)
	b, err := Parse("pages", "pages/a.md", []byte("---\ntitle: A\n---\nTwo\n"))
	require.NoError(t, err)
	c, err := Parse("pages", "pages/a.md", []byte("---\ntitle: A\nfingerprint: stale\n---\nOne\n"))
	require.NoError(t, err)

	require.NotEqual(t, a.Fingerprint, b.Fingerprint)
	require.Equal(t, a.Fingerprint, c.Fingerprint)
}

func TestLoad_DotPrefixedContentDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "content/guide/index.md", "---\ntitle: Guide\npriority: 1\n---\nGuide\n")
	writeFile(t, dir, "content/about.md", "---\ntitle: About\npriority: 2\n---\nAbout\n")
	t.Chdir(dir)

	for _, base := range []string{"./content", "content/", "./content/"} {
		all, err := Load(base)
		require.NoError(t, err)
		require.Len(t, all, 2)
		require.Equal(t, "about", all[0].Slug)
		require.Equal(t, "guide/", all[1].Slug)
		require.Equal(t, "/guide/", all[1].Permalink)
	}
}

func TestLoad_MalformedFrontmatterIsParseError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.md", "---\ntitle: Broken\n")

	_, err := Load(dir)
	require.Error(t, err)
	require.True(t, serrors.IsCategory(err, serrors.CategoryParse))
}

func TestLoad_MissingDirectoryIsFilesystemError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	require.True(t, serrors.IsCategory(err, serrors.CategoryFileSystem))
}

func TestNavigable_FiltersAndKeepsOrder(t *testing.T) {
	all := []*Page{
		{Slug: "a", Title: "A", HasPriority: true},
		{Slug: "b", Title: "B"},
		{Slug: "c", HasPriority: true},
		{Slug: "d", Title: "D", HasPriority: true},
	}
	got := Navigable(all)
	require.Len(t, got, 2)
	require.Equal(t, "a", got[0].Slug)
	require.Equal(t, "d", got[1].Slug)
}

func TestRenderable(t *testing.T) {
	for file, want := range map[string]bool{
		"src/pages/a.md":         true,
		"src/pages/b.HTML":       true,
		"src/pages/c.tmpl":       true,
		"src/pages/logo.svg":     false,
		"src/pages/data.json":    false,
		"src/pages/no-extension": false,
	} {
		require.Equal(t, want, (&Page{Source: file}).Renderable(), file)
	}
}
