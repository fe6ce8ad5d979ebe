package json

import "github.com/creachadair/spac"

// frameAt reads frame i of the stack as a Frame pushed by this package's
// Source; mismatched types cannot occur unless a caller mixes json events
// into a Stack driven by a different event family.
func frameAt(s *spac.Stack, i int) (Frame, bool) {
	fr, ok := s.At(i).(Frame)
	return fr, ok
}

// Field matches the enclosing object frame currently refined to member
// name: the same structural position an xml.Name match occupies, just
// expressed as "this container's current key" rather than "this element's
// own name", since a JSON object member has no frame of its own (spec.md
// §3's "JSON field names refine an already-open object frame").
func Field(name string) spac.ContextMatcher[Frame] {
	return func(s *spac.Stack) (Frame, int, bool, error) {
		if s.Depth() == 0 {
			return Frame{}, 0, false, nil
		}
		fr, ok := frameAt(s, 0)
		if !ok {
			return Frame{}, 0, false, nil
		}
		if fr.IsArray || fr.Key != name {
			return Frame{}, 0, false, nil
		}
		return fr, 1, true, nil
	}
}

// Wildcard matches the enclosing object frame regardless of its current
// member name. It requires the frame to have been refined at least once
// (Refined), so it never matches the object's own opening Push, before any
// member name is known.
func Wildcard() spac.ContextMatcher[Frame] {
	return func(s *spac.Stack) (Frame, int, bool, error) {
		if s.Depth() == 0 {
			return Frame{}, 0, false, nil
		}
		fr, ok := frameAt(s, 0)
		if !ok || fr.IsArray || !fr.Refined {
			return Frame{}, 0, false, nil
		}
		return fr, 1, true, nil
	}
}

// AnyIndex matches the enclosing array frame at its current element
// position, regardless of index. It requires the frame to have been
// refined at least once (Refined), so it never matches the array's own
// opening Push, before its first element's index-Refine has fired.
func AnyIndex() spac.ContextMatcher[Frame] {
	return func(s *spac.Stack) (Frame, int, bool, error) {
		if s.Depth() == 0 {
			return Frame{}, 0, false, nil
		}
		fr, ok := frameAt(s, 0)
		if !ok || !fr.IsArray || !fr.Refined {
			return Frame{}, 0, false, nil
		}
		return fr, 1, true, nil
	}
}

// Path composes a sequence of Field matchers (or Wildcard, passed as "*")
// via Then — the JSON analogue of xml.Path. Array-position segments are not
// expressible as plain strings (there is no name to write), so multi-level
// paths crossing into an array use PathWith instead.
func Path(names ...string) spac.ContextMatcher[Frame] {
	if len(names) == 0 {
		panic("json.Path: at least one field name is required")
	}
	m := fieldOrWildcard(names[0])
	for _, n := range names[1:] {
		m = spac.Then(m, fieldOrWildcard(n))
	}
	return m
}

func fieldOrWildcard(name string) spac.ContextMatcher[Frame] {
	if name == "*" {
		return Wildcard()
	}
	return Field(name)
}

// PathWith composes a sequence of matchers of any kind (Field, Wildcard,
// AnyIndex) sharing the Frame context type — the general form Path is a
// convenience wrapper over, needed once a path crosses an array boundary
// (e.g. PathWith(Field("items"), AnyIndex())).
func PathWith(matchers ...spac.ContextMatcher[Frame]) spac.ContextMatcher[Frame] {
	if len(matchers) == 0 {
		panic("json.PathWith: at least one matcher is required")
	}
	m := matchers[0]
	for _, next := range matchers[1:] {
		m = spac.Then(m, next)
	}
	return m
}
