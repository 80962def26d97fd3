package navigation

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitegen/internal/pages"
)

// Entry is one node of the navigation tree: the page plus its children.
type Entry struct {
	Key string
	*pages.Page
	Children Tree
}

// Tree is an insertion-ordered mapping from key to Entry.
//
// It encodes as a JSON object or YAML mapping whose keys follow sibling order.
// Map-based encoders (encoding/json on maps, ojg) sort keys, so MarshalJSON and
// MarshalYAML write the entries out by hand.
type Tree struct {
	entries []*Entry
	index   map[string]int
}

// set inserts e or, for a duplicate key, replaces the earlier entry in place.
func (t *Tree) set(e *Entry) {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if i, ok := t.index[e.Key]; ok {
		t.entries[i] = e
		return
	}
	t.index[e.Key] = len(t.entries)
	t.entries = append(t.entries, e)
}

// Len returns the number of entries at this level.
func (t Tree) Len() int { return len(t.entries) }

// Entries returns the entries in sibling order.
func (t Tree) Entries() []*Entry { return t.entries }

// Keys returns the keys in sibling order.
func (t Tree) Keys() []string {
	keys := make([]string, len(t.entries))
	for i, e := range t.entries {
		keys[i] = e.Key
	}
	return keys
}

// Get looks up an entry at this level.
func (t Tree) Get(key string) (*Entry, bool) {
	i, ok := t.index[key]
	if !ok {
		return nil, false
	}
	return t.entries[i], true
}

// Walk visits entries depth first in sibling order. Returning false skips the entry's children.
func (t Tree) Walk(fn func(e *Entry, depth int) bool) {
	t.walk(fn, 1)
}

func (t Tree) walk(fn func(e *Entry, depth int) bool, depth int) {
	for _, e := range t.entries {
		if fn(e, depth) {
			e.Children.walk(fn, depth+1)
		}
	}
}

// MarshalJSON encodes the tree as an object whose keys keep sibling order.
func (t Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range t.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := json.Marshal(struct {
			*pages.Page
			Children Tree `json:"children"`
		}{e.Page, e.Children})
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the tree as a mapping whose keys keep sibling order.
func (t Tree) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range t.entries {
		var val yaml.Node
		if err := val.Encode(struct {
			pages.Page `yaml:",inline"`
			Children   Tree `yaml:"children"`
		}{*e.Page, e.Children}); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
			&val)
	}
	return node, nil
}
