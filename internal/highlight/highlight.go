// Package highlight turns code into class-annotated HTML and emits the matching stylesheet.
package highlight

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is used when no style or an unknown style is requested.
const DefaultStyle = "github"

var formatter = chromahtml.New(
	chromahtml.WithClasses(true),
	chromahtml.PreventSurroundingPre(true),
)

// Supported reports whether a lexer is registered for lang.
func Supported(lang string) bool {
	return lexerFor(lang) != nil
}

// Highlight renders code for lang. For a known language the result is wrapped in
// <pre class="language-L"><code class="language-L"> and ok is true. For an unknown
// language the escaped code is returned unwrapped with ok false.
func Highlight(code, lang string) (string, bool) {
	lexer := lexerFor(lang)
	if lexer == nil {
		return html.EscapeString(code), false
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return html.EscapeString(code), false
	}

	var b strings.Builder
	class := "language-" + html.EscapeString(lang)
	fmt.Fprintf(&b, `<pre class="%s"><code class="%s">`, class, class)
	if err := formatter.Format(&b, style(DefaultStyle), iterator); err != nil {
		return html.EscapeString(code), false
	}
	b.WriteString("</code></pre>")
	return b.String(), true
}

// WriteCSS writes the stylesheet for the named chroma style.
func WriteCSS(w io.Writer, name string) error {
	if err := formatter.WriteCSS(w, style(name)); err != nil {
		return fmt.Errorf("write highlight css: %w", err)
	}
	return nil
}

func lexerFor(lang string) chroma.Lexer {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return nil
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		return nil
	}
	return chroma.Coalesce(lexer)
}

func style(name string) *chroma.Style {
	if s, ok := styles.Registry[name]; ok {
		return s
	}
	return styles.Get(DefaultStyle)
}
