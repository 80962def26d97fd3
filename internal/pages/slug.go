package pages

import (
	"path/filepath"
	"regexp"
	"strings"
)

// indexSegment is removed from slugs so that `guide/index.md` collapses to `guide/`.
const indexSegment = "index"

var slashRuns = regexp.MustCompile(`/{2,}`)

// DeriveSlug computes a page's slug from its file path relative to baseDir.
//
// Both paths are cleaned and the base directory prefix is stripped, separators become `/`, the extension
// (from the last `.` of the final segment) is dropped and the first literal
// "index" substring is removed. The result may be empty for the root index page.
func DeriveSlug(baseDir, file string) string {
	base := strings.TrimSuffix(filepath.ToSlash(filepath.Clean(baseDir)), "/")
	slug := filepath.ToSlash(filepath.Clean(file))
	if base != "." {
		slug = strings.TrimPrefix(slug, base+"/")
	}

	if dot := strings.LastIndexByte(slug, '.'); dot >= 0 && dot > strings.LastIndexByte(slug, '/') {
		slug = slug[:dot]
	}

	// Literal substring match: "reindex" becomes "re" as well.
	return strings.Replace(slug, indexSegment, "", 1)
}

// Permalink wraps slug in slashes and collapses repeated slashes.
func Permalink(slug string) string {
	return slashRuns.ReplaceAllString("/"+slug+"/", "/")
}
