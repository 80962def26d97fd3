package site

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/highlight"
	"git.home.luguber.info/inful/sitegen/internal/htmlpost"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
	"git.home.luguber.info/inful/sitegen/internal/pages"
	"git.home.luguber.info/inful/sitegen/internal/templates"
)

func stageRender(ctx context.Context, bs *BuildState) error {
	cfg := bs.Config
	md := markdown.New(markdown.Options{
		HTML:         cfg.Markdown.AllowHTML(),
		IndentedCode: cfg.Markdown.IndentedCode,
		Highlight:    highlight.Highlight,
	})
	engine, err := templates.New(cfg.TemplatesDir, md)
	if err != nil {
		return err
	}
	post := htmlpost.ForEnvironment(cfg.Environment)

	data := templates.Data{
		Site:          cfg.Site,
		Env:           cfg.Environment,
		Build:         templates.BuildInfo{ID: bs.ID, Time: bs.Report.Start},
		Pages:         bs.Pages,
		Navigation:    bs.Navigation,
		Specification: bs.Specification,
		OpenMFE:       bs.Manifest,
	}

	permalinks := make(map[string]string)
	var renderable []*pages.Page
	for _, p := range bs.Pages {
		if !p.Renderable() {
			continue
		}
		if other, dup := permalinks[p.Permalink]; dup {
			return fmt.Errorf("pages %s and %s share permalink %s", other, p.Source, p.Permalink)
		}
		permalinks[p.Permalink] = p.Source
		renderable = append(renderable, p)
	}

	for _, p := range renderable {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := OutputPath(p.Permalink)
		if err != nil {
			return err
		}
		html, err := engine.RenderPage(p, data)
		if err != nil {
			return err
		}
		out, err := post.Apply(rel, []byte(html))
		if err != nil {
			return err
		}
		if err := writeOutput(bs, rel, out); err != nil {
			return err
		}
		if p.Ext() == "md" {
			checkLinks(bs, p, permalinks)
		}
		slog.Debug("Rendered page",
			logfields.Path(p.Source),
			logfields.Permalink(p.Permalink))
	}
	bs.Report.Pages = len(renderable)
	return nil
}

// checkLinks warns about site-absolute links in a markdown body that point to
// a directory-style permalink no page produces.
func checkLinks(bs *BuildState, p *pages.Page, permalinks map[string]string) {
	for _, link := range markdown.ExtractLinks([]byte(p.Content)) {
		dest := link.Destination
		if i := strings.IndexAny(dest, "?#"); i >= 0 {
			dest = dest[:i]
		}
		if !strings.HasPrefix(dest, "/") || strings.HasPrefix(dest, "//") || !strings.HasSuffix(dest, "/") {
			continue
		}
		if _, ok := permalinks[dest]; ok {
			continue
		}
		if slices.Contains(bs.Report.Warnings, brokenLinkWarning(p.Source, dest)) {
			continue
		}
		slog.Warn("Link to unknown page",
			logfields.Path(p.Source),
			slog.String("link", dest))
		bs.Report.warn(brokenLinkWarning(p.Source, dest))
	}
}

func brokenLinkWarning(source, dest string) string {
	return fmt.Sprintf("%s: link to unknown page %s", source, dest)
}
