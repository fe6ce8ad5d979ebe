package xml

import (
	encxml "encoding/xml"
	"fmt"

	"github.com/creachadair/spac"
)

// frameElement reads frame i of the stack as the encxml.StartElement a
// Splitter pushed for it; it is an error for the frame to be anything else,
// which cannot happen unless a caller mixes xml events into a Stack driven
// by a different event family.
func frameElement(s *spac.Stack, i int) (encxml.StartElement, error) {
	el, ok := s.At(i).(encxml.StartElement)
	if !ok {
		return encxml.StartElement{}, fmt.Errorf("xml: frame %d is not a StartElement", i)
	}
	return el, nil
}

// Name matches a single element frame whose local name is local, regardless
// of namespace, extracting the matched encxml.StartElement as context.
func Name(local string) spac.ContextMatcher[encxml.StartElement] {
	return func(s *spac.Stack) (encxml.StartElement, int, bool, error) {
		if s.Depth() == 0 {
			return encxml.StartElement{}, 0, false, nil
		}
		el, err := frameElement(s, 0)
		if err != nil {
			return encxml.StartElement{}, 0, false, err
		}
		if el.Name.Local != local {
			return encxml.StartElement{}, 0, false, nil
		}
		return el, 1, true, nil
	}
}

// Any matches a single element frame regardless of its name — the wildcard
// leaf matcher of spec.md §6.1.
func Any() spac.ContextMatcher[encxml.StartElement] {
	return func(s *spac.Stack) (encxml.StartElement, int, bool, error) {
		if s.Depth() == 0 {
			return encxml.StartElement{}, 0, false, nil
		}
		el, err := frameElement(s, 0)
		if err != nil {
			return encxml.StartElement{}, 0, false, err
		}
		return el, 1, true, nil
	}
}

// Path composes a sequence of literal element names into one matcher via
// the core's Then, the same way jtree's jpath turns a path literal into a
// chain of query.Seq calls.
func Path(names ...string) spac.ContextMatcher[encxml.StartElement] {
	if len(names) == 0 {
		panic("xml.Path: at least one element name is required")
	}
	m := Name(names[0])
	for _, n := range names[1:] {
		m = spac.Then(m, Name(n))
	}
	return m
}
