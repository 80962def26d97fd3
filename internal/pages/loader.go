// Package pages scans the content directory, extracts frontmatter and derives
// slugs and permalinks for every content file.
package pages

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/frontmatter"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// Recognized frontmatter keys.
const (
	KeyTitle     = "title"
	KeyPriority  = "priority"
	KeyLayout    = "layout"
	KeyPermalink = "permalink"
)

// Load reads every non-hidden file below contentDir in lexical path order.
//
// Any filesystem or frontmatter error aborts the load; there is no partial result.
func Load(contentDir string) ([]*Page, error) {
	if st, err := os.Stat(contentDir); err != nil {
		return nil, serrors.FilesystemFailed("stat content dir", contentDir, err)
	} else if !st.IsDir() {
		return nil, serrors.FilesystemFailed("stat content dir", contentDir, fs.ErrInvalid)
	}

	var files []string
	err := filepath.WalkDir(contentDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != contentDir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, serrors.FilesystemFailed("scan content dir", contentDir, err)
	}

	out := make([]*Page, 0, len(files))
	for i, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, serrors.FilesystemFailed("read page", file, err)
		}
		page, err := Parse(contentDir, file, raw)
		if err != nil {
			return nil, err
		}
		page.Order = i
		out = append(out, page)
	}

	slog.Debug("Loaded content pages", logfields.Path(contentDir), logfields.Pages(len(out)))
	return out, nil
}

// Parse builds a Page from raw file content.
func Parse(contentDir, file string, raw []byte) (*Page, error) {
	matter, err := frontmatter.Extract(raw)
	if err != nil {
		return nil, serrors.ParseFailed(file, err)
	}

	slug := DeriveSlug(contentDir, file)
	page := &Page{
		Source:    file,
		Slug:      slug,
		Permalink: Permalink(slug),
		Content:   matter.Content,
		Params:    matter.Data,
	}

	page.Title = titleOf(matter.Get(KeyTitle))
	if layout, ok := matter.Get(KeyLayout).String(); ok {
		page.Layout = layout
	}
	if permalink, ok := matter.Get(KeyPermalink).String(); ok && permalink != "" {
		page.Permalink = permalink
	}

	prio := matter.Get(KeyPriority)
	if n, ok := prio.Number(); ok {
		page.Priority = n
		// A numeric zero counts as unset; the string "0" does not.
		page.HasPriority = n != 0 || prio.Kind() == frontmatter.KindString
	} else if prio.Kind() != frontmatter.KindNull {
		slog.Warn("Ignoring non-numeric priority",
			logfields.Path(file),
			slog.String("kind", prio.Kind().String()))
	}

	page.Fingerprint, err = computeFingerprint(matter.Data, matter.Content)
	if err != nil {
		return nil, serrors.ParseFailed(file, err)
	}
	return page, nil
}

// titleOf accepts any truthy scalar as a title: strings, numbers other than
// zero and true. Numbers are formatted without trailing zeros.
func titleOf(v frontmatter.Value) string {
	switch v.Kind() {
	case frontmatter.KindString:
		s, _ := v.String()
		return strings.TrimSpace(s)
	case frontmatter.KindNumber:
		n, _ := v.Number()
		if n == 0 {
			return ""
		}
		return strconv.FormatFloat(n, 'f', -1, 64)
	case frontmatter.KindBool:
		if b, _ := v.Bool(); b {
			return "true"
		}
	}
	return ""
}

func extOf(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
