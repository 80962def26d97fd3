// Package htmlpost post-processes rendered output files: minification for
// production builds, beautification for development builds.
package htmlpost

import (
	"fmt"
	"sort"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/config"
)

// Transformer rewrites the content of an output file.
type Transformer interface {
	Name() string
	Priority() int // lower runs first
	Transform(content []byte) ([]byte, error)
}

// Pipeline applies transformers in priority order to .html outputs.
type Pipeline struct {
	transformers []Transformer
}

// NewPipeline sorts transformers by priority, then name.
func NewPipeline(ts ...Transformer) *Pipeline {
	items := make([]Transformer, 0, len(ts))
	for _, t := range ts {
		if t != nil {
			items = append(items, t)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Priority() == items[j].Priority() {
			return items[i].Name() < items[j].Name()
		}
		return items[i].Priority() < items[j].Priority()
	})
	return &Pipeline{transformers: items}
}

// ForEnvironment returns the minify pipeline for production and the beautify
// pipeline for everything else.
func ForEnvironment(env config.Environment) *Pipeline {
	if env == config.EnvProduction {
		return NewPipeline(NewMinifier())
	}
	return NewPipeline(NewBeautifier())
}

// Names lists the transformers in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.transformers))
	for i, t := range p.transformers {
		names[i] = t.Name()
	}
	return names
}

// Apply runs the pipeline for an output path. Non-HTML paths are returned unchanged.
func (p *Pipeline) Apply(path string, content []byte) ([]byte, error) {
	if !strings.HasSuffix(path, ".html") {
		return content, nil
	}
	out := content
	for _, t := range p.transformers {
		var err error
		out, err = t.Transform(out)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", t.Name(), path, err)
		}
	}
	return out, nil
}
