package spac

// A ContextMatcher is a predicate over the context stack deciding when a
// sub-stream is open (spec.md §3 "ContextMatcher", §4.9). It is evaluated
// against a (possibly suffixed) Stack and reports how many frames from the
// front of that stack it consumed, the extracted context value, and whether
// it matched at all.
//
// Matchers compose by Then (spec.md's "\" path operator): Then(a, b)
// succeeds iff a matches some prefix of the stack and b matches the suffix
// starting after that prefix; the composed context is b's.
//
// Concrete leaf matchers (literal element/field names, wildcards, array
// indices) are supplied per event family — xml.Name/xml.Any/xml.Path,
// json.Field/json.Wildcard/json.AnyIndex/json.Path — the same layering
// jtree's query package uses between its generic Seq/Alt combinators and
// each leaf Query implementation (objKey, nthQuery, …).
type ContextMatcher[C any] func(s *Stack) (ctx C, consumed int, ok bool, err error)

// Then composes a with b: a must match a prefix of the stack, and b must
// match the remainder. The resulting context is b's.
func Then[C1, C2 any](a ContextMatcher[C1], b ContextMatcher[C2]) ContextMatcher[C2] {
	return func(s *Stack) (C2, int, bool, error) {
		var zero C2
		_, n1, ok1, err := a(s)
		if err != nil {
			return zero, 0, false, err
		}
		if !ok1 {
			return zero, 0, false, nil
		}
		ctx2, n2, ok2, err := b(s.Suffix(n1))
		if err != nil {
			return zero, 0, false, err
		}
		if !ok2 {
			return zero, 0, false, nil
		}
		return ctx2, n1 + n2, true, nil
	}
}

// MatchesExactly reports whether m matches the entirety of s (consumes
// every frame, no more and no less) — the condition a Splitter requires to
// open a sub-stream at the current event (spec.md §4.5 step 2).
func MatchesExactly[C any](m ContextMatcher[C], s *Stack) (ctx C, ok bool, err error) {
	ctx, n, ok, err := m(s)
	if err != nil || !ok {
		return ctx, false, err
	}
	if n != s.Depth() {
		var zero C
		return zero, false, nil
	}
	return ctx, true, nil
}
