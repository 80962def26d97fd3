// Package frontmatter splits a leading YAML metadata block from a content file
// and exposes the metadata as a small closed set of typed values.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

const delimiter = "---"

// Matter is the result of extracting frontmatter from a file.
type Matter struct {
	Data    map[string]any
	Content string
	// HasBlock is false when the file carried no frontmatter block at all.
	HasBlock bool
}

// Get returns the typed value stored under key (KindNull when absent).
func (m Matter) Get(key string) Value {
	return ValueOf(m.Data[key])
}

// Extract separates `---` delimited YAML frontmatter from the body.
//
// Files without a leading delimiter yield empty Data and the whole text as Content.
// LF and CRLF line endings are both accepted.
func Extract(raw []byte) (Matter, error) {
	block, body, had, err := split(raw)
	if err != nil {
		return Matter{}, err
	}

	data, err := parseBlock(block)
	if err != nil {
		return Matter{}, err
	}
	return Matter{Data: data, Content: string(body), HasBlock: had}, nil
}

func split(content []byte) (block, body []byte, had bool, err error) {
	nl := detectNewline(content)
	open := []byte(delimiter + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) {
		return nil, rest[len(open):], true, nil
	}

	closing := []byte(nl + delimiter + nl)
	idx := bytes.Index(rest, closing)
	if idx < 0 {
		// A closing delimiter on the last line without a trailing newline still counts.
		if bytes.HasSuffix(rest, []byte(nl+delimiter)) {
			return rest[:len(rest)-len(delimiter)], nil, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	return rest[:idx+len(nl)], rest[idx+len(closing):], true, nil
}

func parseBlock(block []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(block)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(block, &fields); err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
