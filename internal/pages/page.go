package pages

// Page is a content file after frontmatter extraction and slug derivation.
type Page struct {
	// Source is the file path as found during the scan.
	Source string `json:"-" yaml:"-"`
	// Order is the position of the file in the path-sorted scan.
	Order int `json:"-" yaml:"-"`

	Slug        string  `json:"slug" yaml:"slug"`
	Permalink   string  `json:"permalink" yaml:"permalink"`
	Title       string  `json:"title,omitempty" yaml:"title,omitempty"`
	Priority    float64 `json:"priority" yaml:"priority"`
	HasPriority bool    `json:"-" yaml:"-"`
	Layout      string  `json:"layout,omitempty" yaml:"layout,omitempty"`
	Content     string  `json:"content" yaml:"content"`
	Fingerprint string  `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`

	// Params holds every frontmatter key, including the ones promoted to fields above.
	Params map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

// Navigable reports whether the page qualifies for the navigation tree:
// it needs a non-empty title and a numeric priority.
func (p *Page) Navigable() bool {
	return p.Title != "" && p.HasPriority
}

// Ext returns the lower-cased source extension without the dot.
func (p *Page) Ext() string {
	return extOf(p.Source)
}

// Renderable reports whether the page is turned into an output file (.md, .html or .tmpl).
func (p *Page) Renderable() bool {
	switch p.Ext() {
	case "md", "html", "tmpl":
		return true
	default:
		return false
	}
}

// Navigable filters pages down to the ones that qualify for navigation, keeping scan order.
func Navigable(all []*Page) []*Page {
	out := make([]*Page, 0, len(all))
	for _, p := range all {
		if p.Navigable() {
			out = append(out, p)
		}
	}
	return out
}
