package templates

import (
	"fmt"
	"html/template"
	"reflect"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/sitegen/internal/frontmatter"
	"git.home.luguber.info/inful/sitegen/internal/highlight"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
)

// Funcs returns the helper functions available to page bodies and layouts.
func Funcs(md *markdown.Renderer) template.FuncMap {
	return template.FuncMap{
		"markdown": func(v any) (template.HTML, error) {
			out, err := md.Render(toString(v))
			// #nosec G203 -- markdown output is trusted page content
			return template.HTML(out), err
		},
		"imarkdown": func(v any) (template.HTML, error) {
			out, err := md.RenderInline(toString(v))
			// #nosec G203 -- markdown output is trusted page content
			return template.HTML(out), err
		},
		"yaml": func(v any) (string, error) {
			out, err := frontmatter.Marshal(v)
			if err != nil {
				return "", fmt.Errorf("yaml: %w", err)
			}
			return string(out), nil
		},
		"highlight": highlightFunc,
		"typeof":    typeOf,
		"toJSArray": toJSArray,
		"jsonpath":  jsonPath,
		"titlecase": titleCase,
		"safe":      safe,
		"dict":      dict,
		"default":   defaultValue,
	}
}

// highlightFunc takes the language first so it reads naturally in a pipeline:
// {{ .Code | highlight "yaml" }}.
func highlightFunc(lang string, code any) template.HTML {
	out, _ := highlight.Highlight(toString(code), lang)
	return template.HTML(out) // #nosec G203 -- highlighter output is escaped
}

// typeOf reports a value's kind using the names templates check against:
// undefined, string, number, boolean, object or function.
func typeOf(v any) string {
	if v == nil {
		return "undefined"
	}
	if fv, ok := v.(frontmatter.Value); ok {
		return typeOf(fv.Raw())
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Func:
		return "function"
	case reflect.Pointer, reflect.Interface:
		if reflect.ValueOf(v).IsNil() {
			return "undefined"
		}
		return "object"
	default:
		return "object"
	}
}

// toJSArray encodes v as a JSON literal for embedding in scripts or attributes.
func toJSArray(v any) template.JS {
	return template.JS(oj.JSON(v, &ojg.Options{Sort: true, UseTags: true})) // #nosec G203 -- encoder output
}

// jsonPath evaluates a JSONPath expression against data and returns every match.
func jsonPath(expr string, data any) ([]any, error) {
	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath %q: %w", expr, err)
	}
	return x.Get(data), nil
}

// titleCase builds a fresh Caser per call; Casers are not safe for concurrent use.
func titleCase(v any) string {
	return cases.Title(language.English).String(toString(v))
}

// safe marks v as trusted HTML.
func safe(v any) template.HTML {
	return template.HTML(toString(v)) // #nosec G203 -- explicit opt-out by the template author
}

func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	out := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		out[key] = pairs[i+1]
	}
	return out, nil
}

func defaultValue(fallback, v any) any {
	if v == nil {
		return fallback
	}
	if s, ok := v.(string); ok && s == "" {
		return fallback
	}
	return v
}

func toString(v any) string {
	switch vv := v.(type) {
	case nil:
		return ""
	case string:
		return vv
	case template.HTML:
		return string(vv)
	case frontmatter.Value:
		return toString(vv.Raw())
	case fmt.Stringer:
		return vv.String()
	default:
		return fmt.Sprint(vv)
	}
}
