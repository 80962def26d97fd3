package htmlpost

import (
	"bytes"
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

// MediaTypeJS is the media type used to minify standalone scripts.
const MediaTypeJS = "application/javascript"

// Minifier collapses whitespace, drops optional attribute quotes and default
// type attributes, and minifies inline CSS and JavaScript.
type Minifier struct {
	m *minify.M
}

// NewMinifier configures the HTML, CSS and JS minifiers.
func NewMinifier() *Minifier {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFuncRegexp(regexp.MustCompile(`^(application|text)/(x-)?(java|ecma)script$`), js.Minify)
	m.Add("text/html", &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
	})
	return &Minifier{m: m}
}

func (*Minifier) Name() string  { return "minify" }
func (*Minifier) Priority() int { return 100 }

func (mn *Minifier) Transform(content []byte) ([]byte, error) {
	return mn.minify("text/html", content)
}

// Script minifies a JavaScript bundle.
func (mn *Minifier) Script(content []byte) ([]byte, error) {
	return mn.minify(MediaTypeJS, content)
}

func (mn *Minifier) minify(mediaType string, content []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := mn.m.Minify(mediaType, &buf, bytes.NewReader(content)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
