package markdown

// HighlightFunc renders a fenced code block. ok=false means the language is unknown
// and the renderer falls back to a plain escaped <pre><code> block.
type HighlightFunc func(code, lang string) (html string, ok bool)

// Options controls the markdown renderer.
type Options struct {
	// HTML lets raw HTML in the source pass through unescaped.
	HTML bool
	// IndentedCode enables four-space indented code blocks. When false such
	// lines are ordinary paragraph text.
	IndentedCode bool
	// Highlight is applied to fenced code blocks.
	Highlight HighlightFunc
}
