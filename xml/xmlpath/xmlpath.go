// Package xmlpath parses a small path-literal grammar into an xml
// ContextMatcher, the way jtree's jpath package turns a path literal into a
// query.Query: a backslash-separated sequence of element names, where a
// bare "*" stands for xml.Any instead of a literal name.
package xmlpath

import (
	encxml "encoding/xml"
	"fmt"
	"strings"

	"github.com/creachadair/spac"
	"github.com/creachadair/spac/xml"
)

// Parse parses a path literal such as `a\b\*` into a matcher equivalent to
// spac.Then(xml.Path("a", "b"), xml.Any()) — each backslash-separated segment is
// either a literal element name or "*" for a wildcard frame. An empty
// segment (leading, trailing, or doubled backslash) is a parse error.
func Parse(path string) (spac.ContextMatcher[encxml.StartElement], error) {
	segs := strings.Split(path, `\`)
	if len(segs) == 0 {
		return nil, fmt.Errorf("xmlpath: empty path")
	}
	var m spac.ContextMatcher[encxml.StartElement]
	for i, seg := range segs {
		if seg == "" {
			return nil, fmt.Errorf("xmlpath: empty segment at position %d in %q", i, path)
		}
		var next spac.ContextMatcher[encxml.StartElement]
		if seg == "*" {
			next = xml.Any()
		} else {
			next = xml.Name(seg)
		}
		if m == nil {
			m = next
		} else {
			m = spac.Then(m, next)
		}
	}
	return m, nil
}

// MustParse is Parse, panicking on a malformed path literal — for use with
// path literals fixed at compile time.
func MustParse(path string) spac.ContextMatcher[encxml.StartElement] {
	m, err := Parse(path)
	if err != nil {
		panic(err)
	}
	return m
}
