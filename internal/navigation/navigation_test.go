package navigation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitegen/internal/pages"
)

func page(slug string, priority float64, title string) *pages.Page {
	return &pages.Page{Slug: slug, Permalink: pages.Permalink(slug), Title: title, Priority: priority, HasPriority: true}
}

func withOrder(ps ...*pages.Page) []*pages.Page {
	for i, p := range ps {
		p.Order = i
	}
	return ps
}

func TestBuild_LiteralPrefixScenario(t *testing.T) {
	tree := Build(withOrder(
		page("a", 1, "A"),
		page("a/b", 1, "B"),
		page("ab", 2, "AB"),
	), Options{})

	require.Equal(t, []string{"a", "ab"}, tree.Keys())

	a, ok := tree.Get("a")
	require.True(t, ok)
	require.Equal(t, []string{"a/b"}, a.Children.Keys())

	ab, ok := tree.Get("ab")
	require.True(t, ok)
	require.Equal(t, 0, ab.Children.Len())
}

func TestBuild_LiteralPrefixMatchesTextualExtensions(t *testing.T) {
	// "a2/x" extends "a" textually, so it nests under "a" as well as under "a2".
	tree := Build(withOrder(
		page("a", 1, "A"),
		page("a2", 2, "A2"),
		page("a/b", 1, "B"),
		page("a2/x", 2, "X"),
	), Options{})

	a, _ := tree.Get("a")
	require.Equal(t, []string{"a/b", "a2/x"}, a.Children.Keys())

	a2, _ := tree.Get("a2")
	require.Equal(t, []string{"a2/x"}, a2.Children.Keys())
}

func TestBuild_SegmentAwareMatching(t *testing.T) {
	tree := Build(withOrder(
		page("a", 1, "A"),
		page("a2", 2, "A2"),
		page("a/b", 1, "B"),
		page("a2/x", 2, "X"),
	), Options{SegmentAware: true})

	a, _ := tree.Get("a")
	require.Equal(t, []string{"a/b"}, a.Children.Keys())

	a2, _ := tree.Get("a2")
	require.Equal(t, []string{"a2/x"}, a2.Children.Keys())
}

func TestBuild_ExcludesPagesWithoutTitleOrPriority(t *testing.T) {
	noPriority := &pages.Page{Slug: "draft", Title: "Draft"}
	noTitle := &pages.Page{Slug: "untitled", Priority: 1, HasPriority: true}

	tree := Build(withOrder(page("a", 1, "A"), noPriority, noTitle), Options{})

	require.Equal(t, []string{"a"}, tree.Keys())
	_, ok := tree.Get("draft")
	require.False(t, ok)
}

func TestBuild_SortsByPriorityWithScanOrderTieBreak(t *testing.T) {
	tree := Build(withOrder(
		page("c", 3, "C"),
		page("b", 1, "B"),
		page("x", 2, "X"),
		page("a", 1, "A"),
		page("f", 0.5, "F"),
	), Options{})

	require.Equal(t, []string{"f", "b", "a", "x", "c"}, tree.Keys())
}

func TestBuild_EmptySlugIsIndexRootWithoutChildren(t *testing.T) {
	tree := Build(withOrder(
		page("", 0, "Home"),
		page("a", 1, "A"),
		page("a/b", 1, "B"),
	), Options{})

	require.Equal(t, []string{IndexKey, "a"}, tree.Keys())
	home, _ := tree.Get(IndexKey)
	require.Equal(t, "Home", home.Title)
	require.Equal(t, "/", home.Permalink)
	require.Equal(t, 0, home.Children.Len())
}

func TestBuild_DirectoryIndexNestsUnderSibling(t *testing.T) {
	// guide/index.md has slug "guide/" (two segments) and lives under "guide".
	tree := Build(withOrder(
		page("guide", 1, "Guide"),
		page("guide/", 1, "Guide Overview"),
		page("guide/setup", 2, "Setup"),
	), Options{})

	guide, _ := tree.Get("guide")
	require.Equal(t, []string{"guide/", "guide/setup"}, guide.Children.Keys())
}

func TestBuild_DeepTree(t *testing.T) {
	tree := Build(withOrder(
		page("a", 1, "A"),
		page("a/b", 1, "B"),
		page("a/b/c", 1, "C"),
		page("a/b/c/d", 1, "D"),
	), Options{})

	depths := map[string]int{}
	tree.Walk(func(e *Entry, depth int) bool {
		depths[e.Key] = depth
		return true
	})
	require.Equal(t, map[string]int{"a": 1, "a/b": 2, "a/b/c": 3, "a/b/c/d": 4}, depths)
}

func TestBuild_DuplicateSlugKeepsPositionLastWins(t *testing.T) {
	first := page("a", 1, "First")
	second := page("a", 1, "Second")
	tree := Build(withOrder(first, page("b", 2, "B"), second), Options{})

	require.Equal(t, []string{"a", "b"}, tree.Keys())
	a, _ := tree.Get("a")
	require.Equal(t, "Second", a.Title)
}

// checkInvariants asserts sibling ordering, level and prefix rules over a whole tree.
func checkInvariants(t *testing.T, tree Tree, parent *Entry, level int) int {
	t.Helper()
	count := 0
	prev := -1.0e308
	for _, e := range tree.Entries() {
		count++
		require.GreaterOrEqual(t, e.Priority, prev, "siblings must be non-decreasing by priority")
		prev = e.Priority
		require.Equal(t, level, Level(e.Slug))
		if parent == nil {
			require.NotContains(t, e.Slug, "/")
		} else {
			require.True(t, strings.HasPrefix(e.Slug, parent.Slug))
		}
		count += checkInvariants(t, e.Children, e, level+1)
	}
	return count
}

func TestBuild_Invariants(t *testing.T) {
	input := withOrder(
		page("spec", 2, "Spec"),
		page("spec/manifest", 2, "Manifest"),
		page("spec/attributes", 1, "Attributes"),
		page("tools", 3, "Tools"),
		page("tools/cli", 1, "CLI"),
		page("tools/cli/install", 1, "Install"),
		page("about", 1, "About"),
		&pages.Page{Slug: "hidden", Title: "Hidden"},
	)
	tree := Build(input, Options{})

	total := checkInvariants(t, tree, nil, 1)
	require.Equal(t, len(pages.Navigable(input)), total)

	seen := map[string]int{}
	tree.Walk(func(e *Entry, _ int) bool {
		seen[e.Slug]++
		return true
	})
	for slug, n := range seen {
		require.Equal(t, 1, n, "slug %q appears more than once", slug)
	}
}

func TestBuild_EmptyInput(t *testing.T) {
	tree := Build(nil, Options{})
	require.Equal(t, 0, tree.Len())
	require.Empty(t, tree.Keys())
}

func TestTree_MarshalJSON_PreservesOrder(t *testing.T) {
	tree := Build(withOrder(
		page("b", 1, "B"),
		page("a", 2, "A"),
		page("b/c", 1, "C"),
	), Options{})

	out, err := json.Marshal(tree)
	require.NoError(t, err)

	s := string(out)
	require.Less(t, strings.Index(s, `"b":`), strings.Index(s, `"a":`))

	var decoded map[string]map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Equal(t, "/b/", decoded["b"]["permalink"])
	require.Equal(t, map[string]any{}, decoded["a"]["children"])
	children := decoded["b"]["children"].(map[string]any)
	require.Contains(t, children, "b/c")
}

func TestTree_MarshalYAML_PreservesOrder(t *testing.T) {
	tree := Build(withOrder(
		page("b", 1, "B"),
		page("a", 2, "A"),
	), Options{})

	out, err := yaml.Marshal(tree)
	require.NoError(t, err)

	s := string(out)
	require.True(t, strings.HasPrefix(s, "b:\n"))
	require.Contains(t, s, "a:\n")
	require.Contains(t, s, "title: A")
	require.Contains(t, s, "children: {}")
}

func TestLevel(t *testing.T) {
	require.Equal(t, 1, Level(""))
	require.Equal(t, 1, Level("a"))
	require.Equal(t, 2, Level("a/"))
	require.Equal(t, 3, Level("a/b/c"))
}
