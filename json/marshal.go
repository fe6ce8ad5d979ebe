package json

import (
	encjson "encoding/json"
	"fmt"
	"sort"

	"go4.org/mem"

	"github.com/creachadair/spac/internal/escape"
)

// marshalValue renders v (built by rawHandler from container/scalar pieces)
// back to JSON text. Object keys are sorted for deterministic output, since
// a Go map does not preserve the original member order. String escaping
// goes through internal/escape.Quote — the same quoting jtree uses to
// render a *ast.String back to text — rather than a second JSON encoder.
func marshalValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		if t {
			return "true"
		}
		return "false"
	case encjson.Number:
		return t.String()
	case string:
		return quoteString(t)
	case []any:
		return marshalArray(t)
	case map[string]any:
		return marshalObject(t)
	default:
		// Unreachable for values rawHandler itself produces, but keep a safe
		// fallback rather than panicking on an unexpected caller-supplied type.
		return quoteString(fmt.Sprintf("%v", t))
	}
}

func quoteString(s string) string {
	return `"` + string(escape.Quote(mem.S(s))) + `"`
}

func marshalArray(items []any) string {
	buf := []byte{'['}
	for i, it := range items {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, marshalValue(it)...)
	}
	buf = append(buf, ']')
	return string(buf)
}

func marshalObject(obj map[string]any) string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf := []byte{'{'}
	for i, k := range keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, quoteString(k)...)
		buf = append(buf, ':')
		buf = append(buf, marshalValue(obj[k])...)
	}
	buf = append(buf, '}')
	return string(buf)
}
