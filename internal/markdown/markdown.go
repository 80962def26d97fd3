package markdown

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Renderer converts markdown to HTML.
type Renderer struct {
	md goldmark.Markdown
}

// New builds a Renderer. Tables and strikethrough are always enabled.
func New(opts Options) *Renderer {
	p := parser.NewParser(
		parser.WithBlockParsers(blockParsers(opts.IndentedCode)...),
		parser.WithInlineParsers(parser.DefaultInlineParsers()...),
		parser.WithParagraphTransformers(parser.DefaultParagraphTransformers()...),
	)

	rendererOpts := []renderer.Option{
		renderer.WithNodeRenderers(util.Prioritized(newCodeRenderer(opts.Highlight), 100)),
	}
	if opts.HTML {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}

	md := goldmark.New(
		goldmark.WithParser(p),
		goldmark.WithExtensions(extension.Table, extension.Strikethrough),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	return &Renderer{md: md}
}

// Render converts a markdown document to HTML.
func (r *Renderer) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// RenderInline renders src and drops the paragraph wrapper when the result is a single paragraph.
func (r *Renderer) RenderInline(src string) (string, error) {
	out, err := r.Render(src)
	if err != nil {
		return "", err
	}
	trimmed := strings.TrimSuffix(out, "\n")
	if strings.HasPrefix(trimmed, "<p>") && strings.HasSuffix(trimmed, "</p>") && strings.Count(trimmed, "<p>") == 1 {
		return strings.TrimSuffix(strings.TrimPrefix(trimmed, "<p>"), "</p>"), nil
	}
	return out, nil
}

// blockParsers returns goldmark's default block parsers. Unless indentedCode is
// set, the indented code block parser is replaced so indented lines render as
// paragraphs.
func blockParsers(indentedCode bool) []util.PrioritizedValue {
	defaults := parser.DefaultBlockParsers()
	if indentedCode {
		return defaults
	}
	codeBlock := reflect.TypeOf(parser.NewCodeBlockParser())
	out := make([]util.PrioritizedValue, 0, len(defaults))
	for _, v := range defaults {
		if reflect.TypeOf(v.Value) == codeBlock {
			out = append(out, util.Prioritized(newIndentedParagraphParser(), v.Priority))
			continue
		}
		out = append(out, v)
	}
	return out
}

// indentedParagraphParser takes the code block parser's place: a line indented
// by four or more columns opens an ordinary paragraph. goldmark offers such lines
// only to parsers that accept indented lines.
type indentedParagraphParser struct {
	parser.BlockParser
}

func newIndentedParagraphParser() parser.BlockParser {
	return &indentedParagraphParser{BlockParser: parser.NewParagraphParser()}
}

func (b *indentedParagraphParser) Trigger() []byte { return nil }

func (b *indentedParagraphParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	if pc.BlockIndent() < 4 {
		return nil, parser.NoChildren
	}
	return b.BlockParser.Open(parent, reader, pc)
}

func (b *indentedParagraphParser) CanInterruptParagraph() bool { return false }

func (b *indentedParagraphParser) CanAcceptIndentedLine() bool { return true }
