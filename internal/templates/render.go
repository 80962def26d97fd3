// Package templates executes page bodies and layouts.
//
// Page bodies are text templates: they are executed first, then markdown sources
// are converted to HTML. Layouts are html/template files under the templates
// directory, named by their slash-separated path relative to it, and receive the
// rendered body as .Content.
package templates

import (
	"bytes"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	texttemplate "text/template"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
	"git.home.luguber.info/inful/sitegen/internal/pages"
)

// layoutExts lists the file extensions loaded from the templates directory.
var layoutExts = []string{".html", ".tmpl"}

// Engine renders pages.
type Engine struct {
	md       *markdown.Renderer
	layouts  *htmltemplate.Template
	partials *texttemplate.Template
	names    []string
}

// New loads every layout under dir. A missing dir yields an engine without layouts.
func New(dir string, md *markdown.Renderer) (*Engine, error) {
	funcs := Funcs(md)
	e := &Engine{
		md:       md,
		layouts:  htmltemplate.New("").Funcs(funcs),
		partials: texttemplate.New("").Funcs(texttemplate.FuncMap(funcs)),
	}
	if dir == "" {
		return e, nil
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !slices.Contains(layoutExts, strings.ToLower(filepath.Ext(path))) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		return e.add(filepath.ToSlash(rel), path)
	})
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("Templates directory not found; rendering without layouts", logfields.Path(dir))
		return e, nil
	}
	if err != nil {
		return nil, err
	}

	slog.Debug("Loaded layouts", logfields.Path(dir), slog.Int("count", len(e.names)))
	return e, nil
}

func (e *Engine) add(name, path string) error {
	// #nosec G304 -- path comes from walking the configured templates directory.
	src, err := os.ReadFile(path)
	if err != nil {
		return serrors.FilesystemFailed("read layout", path, err)
	}
	if _, err := e.layouts.New(name).Parse(string(src)); err != nil {
		return serrors.RenderFailed(path, fmt.Errorf("parse layout: %w", err))
	}
	if _, err := e.partials.New(name).Parse(string(src)); err != nil {
		return serrors.RenderFailed(path, fmt.Errorf("parse layout: %w", err))
	}
	e.names = append(e.names, name)
	return nil
}

// Layouts returns the loaded layout names in load order.
func (e *Engine) Layouts() []string {
	return slices.Clone(e.names)
}

// Lookup resolves a layout name. The name may omit the file extension.
func (e *Engine) Lookup(name string) (string, bool) {
	candidates := []string{name}
	for _, ext := range layoutExts {
		candidates = append(candidates, name+ext)
	}
	for _, c := range candidates {
		if slices.Contains(e.names, c) {
			return c, true
		}
	}
	return "", false
}

// RenderBody executes body as a text template. Layout files are available to it
// through {{ template "name" . }}.
func (e *Engine) RenderBody(name, body string, data Data) (string, error) {
	tpl, err := e.partials.Clone()
	if err != nil {
		return "", fmt.Errorf("clone templates: %w", err)
	}
	tpl, err = tpl.New(name).Parse(body)
	if err != nil {
		return "", fmt.Errorf("parse template body: %w", err)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template body: %w", err)
	}
	return buf.String(), nil
}

// RenderLayout executes the named layout with content as .Content.
func (e *Engine) RenderLayout(layout string, content string, data Data) (string, error) {
	name, ok := e.Lookup(layout)
	if !ok {
		return "", fmt.Errorf("layout %q not found", layout)
	}
	data.Content = htmltemplate.HTML(content) // #nosec G203 -- rendered page body

	var buf bytes.Buffer
	if err := e.layouts.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render layout %q: %w", name, err)
	}
	return buf.String(), nil
}

// RenderPage produces the final HTML for p: body template, markdown for .md
// sources, then the page's layout if it names one.
func (e *Engine) RenderPage(p *pages.Page, data Data) (string, error) {
	data = data.ForPage(p)

	body, err := e.RenderBody(p.Source, p.Content, data)
	if err != nil {
		return "", serrors.RenderFailed(p.Source, err)
	}

	if p.Ext() == "md" {
		body, err = e.md.Render(body)
		if err != nil {
			return "", serrors.RenderFailed(p.Source, err)
		}
	}

	if p.Layout == "" {
		return body, nil
	}
	out, err := e.RenderLayout(p.Layout, body, data)
	if err != nil {
		return "", serrors.RenderFailed(p.Source, err)
	}
	return out, nil
}
