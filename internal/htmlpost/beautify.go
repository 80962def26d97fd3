package htmlpost

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// blockElements start on their own line and indent their children.
var blockElements = map[string]bool{
	"html": true, "head": true, "body": true, "title": true, "meta": true, "link": true,
	"base": true, "script": true, "style": true, "noscript": true, "template": true,
	"header": true, "footer": true, "main": true, "nav": true, "aside": true,
	"section": true, "article": true, "div": true, "p": true, "blockquote": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "li": true, "dl": true, "dt": true, "dd": true,
	"table": true, "thead": true, "tbody": true, "tfoot": true, "tr": true, "th": true, "td": true,
	"caption": true, "colgroup": true, "col": true,
	"form": true, "fieldset": true, "legend": true, "select": true, "option": true, "textarea": true,
	"figure": true, "figcaption": true, "details": true, "summary": true,
	"pre": true, "hr": true, "iframe": true,
}

// inlineContentElements start on their own line but keep their content and
// end tag on that line unless a block child forces a break.
var inlineContentElements = map[string]bool{
	"title": true, "p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "dt": true, "dd": true, "th": true, "td": true, "option": true,
	"caption": true, "legend": true, "figcaption": true, "summary": true,
}

// voidElements never have an end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "source": true,
	"track": true, "wbr": true,
}

// verbatimElements keep their content byte for byte.
var verbatimElements = map[string]bool{
	"pre": true, "textarea": true, "script": true, "style": true,
}

// Beautifier re-indents HTML: one block element per line, two-space indent,
// blank lines dropped, whitespace inside inline content collapsed.
type Beautifier struct {
	Indent string
}

// NewBeautifier uses a two-space indent.
func NewBeautifier() *Beautifier { return &Beautifier{Indent: "  "} }

func (*Beautifier) Name() string  { return "beautify" }
func (*Beautifier) Priority() int { return 100 }

func (b *Beautifier) Transform(content []byte) ([]byte, error) {
	p := &printer{indent: b.Indent, lineStart: true}
	z := html.NewTokenizer(bytes.NewReader(content))

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, err
			}
			break
		}
		raw := string(z.Raw())

		if p.verbatim != "" {
			p.writeVerbatim(tt, z, raw)
			continue
		}

		switch tt {
		case html.DoctypeToken, html.CommentToken:
			p.line(raw)
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			p.start(string(name), raw, tt == html.SelfClosingTagToken)
		case html.EndTagToken:
			name, _ := z.TagName()
			p.end(string(name), raw)
		case html.TextToken:
			p.text(raw)
		}
	}

	out := strings.TrimRight(p.buf.String(), " \n") + "\n"
	return []byte(out), nil
}

type printer struct {
	buf       strings.Builder
	indent    string
	depth     int
	lineStart bool
	space     bool // collapsed whitespace pending before the next inline token

	verbatim      string // element whose content is being copied unchanged
	verbatimDepth int
}

func (p *printer) newline() {
	if !p.lineStart {
		p.buf.WriteByte('\n')
		p.lineStart = true
	}
	p.space = false
}

func (p *printer) writeIndent() {
	if p.lineStart {
		p.buf.WriteString(strings.Repeat(p.indent, p.depth))
		p.lineStart = false
	}
}

func (p *printer) line(s string) {
	p.newline()
	p.writeIndent()
	p.buf.WriteString(s)
	p.newline()
}

func (p *printer) inline(s string) {
	if p.space && !p.lineStart {
		p.buf.WriteByte(' ')
	}
	p.space = false
	p.writeIndent()
	p.buf.WriteString(s)
}

func (p *printer) start(name, raw string, selfClosing bool) {
	if !blockElements[name] {
		p.inline(raw)
		return
	}
	p.newline()
	p.writeIndent()
	p.buf.WriteString(raw)

	if verbatimElements[name] && !selfClosing {
		p.verbatim = name
		p.verbatimDepth = 1
		return
	}
	if selfClosing || voidElements[name] {
		p.newline()
		return
	}
	p.depth++
	if !inlineContentElements[name] {
		p.newline()
	}
}

func (p *printer) end(name, raw string) {
	if !blockElements[name] {
		p.inline(raw)
		return
	}
	if p.depth > 0 {
		p.depth--
	}
	if !inlineContentElements[name] {
		p.newline()
	}
	p.space = false
	p.writeIndent()
	p.buf.WriteString(raw)
	p.newline()
}

func (p *printer) text(raw string) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		if raw != "" {
			p.space = true
		}
		return
	}
	if startsWithSpace(raw) {
		p.space = true
	}
	p.inline(strings.Join(fields, " "))
	if endsWithSpace(raw) {
		p.space = true
	}
}

func (p *printer) writeVerbatim(tt html.TokenType, z *html.Tokenizer, raw string) {
	if tt == html.StartTagToken || tt == html.EndTagToken {
		name, _ := z.TagName()
		if string(name) == p.verbatim {
			if tt == html.StartTagToken {
				p.verbatimDepth++
			} else {
				p.verbatimDepth--
			}
		}
	}
	p.buf.WriteString(raw)
	if p.verbatimDepth == 0 {
		p.verbatim = ""
		p.newline()
	}
}

func startsWithSpace(s string) bool {
	return s != "" && strings.ContainsRune(" \t\r\n\f", rune(s[0]))
}

func endsWithSpace(s string) bool {
	return s != "" && strings.ContainsRune(" \t\r\n\f", rune(s[len(s)-1]))
}
