// Package navigation groups flat page records into the nested site navigation
// tree, level by level, ordered by page priority.
package navigation

import (
	"cmp"
	"slices"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/pages"
)

// IndexKey is the tree key used for the page with an empty slug.
const IndexKey = "index"

// Options tunes child matching.
type Options struct {
	// SegmentAware matches children on whole path segments. When false a child
	// only needs the parent's slug as a literal string prefix, so "a2" nests
	// under "a" just like "a/b" does.
	SegmentAware bool
}

// Build returns the navigation tree for the given pages.
//
// Pages without a title or priority are dropped first. Siblings are sorted by
// priority; ties keep scan order.
func Build(all []*pages.Page, opts Options) Tree {
	return build(pages.Navigable(all), 1, nil, opts)
}

func build(all []*pages.Page, level int, parent *pages.Page, opts Options) Tree {
	var siblings []*pages.Page
	for _, p := range all {
		if Level(p.Slug) != level {
			continue
		}
		if parent != nil && !isChild(parent.Slug, p.Slug, opts) {
			continue
		}
		siblings = append(siblings, p)
	}
	if len(siblings) == 0 {
		return Tree{}
	}

	slices.SortStableFunc(siblings, byPriority)

	var tree Tree
	for _, p := range siblings {
		tree.set(&Entry{
			Key:      keyFor(p.Slug),
			Page:     p,
			Children: build(all, level+1, p, opts),
		})
	}
	return tree
}

// Level is the number of `/`-separated segments of a slug. The empty slug is level 1.
func Level(slug string) int {
	return strings.Count(slug, "/") + 1
}

func isChild(parentSlug, childSlug string, opts Options) bool {
	// The root index page never parents anything.
	if parentSlug == "" {
		return false
	}
	if opts.SegmentAware {
		return strings.HasPrefix(childSlug, strings.TrimSuffix(parentSlug, "/")+"/")
	}
	return strings.HasPrefix(childSlug, parentSlug)
}

func byPriority(a, b *pages.Page) int {
	if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
		return c
	}
	return cmp.Compare(a.Order, b.Order)
}

func keyFor(slug string) string {
	if slug == "" {
		return IndexKey
	}
	return slug
}
