package frontmatter

import (
	"strconv"
	"strings"
)

// Kind enumerates the value kinds a frontmatter field can hold.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "null"
	}
}

// Value wraps a decoded YAML scalar or collection.
type Value struct {
	raw any
}

// ValueOf wraps a raw decoded value.
func ValueOf(raw any) Value {
	return Value{raw: raw}
}

// Raw returns the wrapped value unchanged.
func (v Value) Raw() any { return v.raw }

// Kind classifies the wrapped value.
func (v Value) Kind() Kind {
	switch v.raw.(type) {
	case nil:
		return KindNull
	case string:
		return KindString
	case int, int64, uint64, float64:
		return KindNumber
	case bool:
		return KindBool
	case []any:
		return KindList
	case map[string]any:
		return KindMap
	default:
		return KindNull
	}
}

// String returns the value when it is a string.
func (v Value) String() (string, bool) {
	s, ok := v.raw.(string)
	return s, ok
}

// Bool returns the value when it is a boolean.
func (v Value) Bool() (bool, bool) {
	b, ok := v.raw.(bool)
	return b, ok
}

// Number returns the value as float64. Numeric strings ("3", " 1.5 ") are
// coerced; anything else reports false.
func (v Value) Number() (float64, bool) {
	switch n := v.raw.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
