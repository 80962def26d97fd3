package templates

import (
	"html/template"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/navigation"
	"git.home.luguber.info/inful/sitegen/internal/openmfe"
	"git.home.luguber.info/inful/sitegen/internal/pages"
	"git.home.luguber.info/inful/sitegen/internal/specification"
)

// Data is the value every page body and layout is executed against.
type Data struct {
	Site          config.SiteConfig
	Env           config.Environment
	Build         BuildInfo
	Pages         []*pages.Page
	Navigation    navigation.Tree
	Specification specification.Document
	OpenMFE       *openmfe.Manifest

	// Page is the page being rendered.
	Page *pages.Page
	// Content is the rendered page body; only set while executing the layout.
	Content template.HTML
}

// BuildInfo identifies the build that produced the output.
type BuildInfo struct {
	ID   string
	Time time.Time
}

// Date returns the build day in UTC as YYYY-MM-DD.
func (b BuildInfo) Date() string { return b.Time.UTC().Format("2006-01-02") }

// DateTime returns the build time in UTC as RFC 3339.
func (b BuildInfo) DateTime() string { return b.Time.UTC().Format(time.RFC3339) }

// IsProduction is a template shortcut for the environment check.
func (d Data) IsProduction() bool { return d.Env == config.EnvProduction }

// ForPage returns a copy of d scoped to p.
func (d Data) ForPage(p *pages.Page) Data {
	d.Page = p
	d.Content = ""
	return d
}
