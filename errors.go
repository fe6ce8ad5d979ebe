package spac

import "fmt"

// Error kind strings for *ParseError. These are not an exhaustive enum —
// event families are free to mint their own ("missing-attribute:name", as
// used by the xml package) — but these cover the three recoverable error
// kinds spec.md §7 distinguishes.
const (
	KindSourceFault     = "source-fault"
	KindParseMismatch   = "parse-mismatch"
	KindCombinatorFault = "user-combinator-fault"
)

// A ParseError reports a recoverable failure: a source fault, a parse
// mismatch (a required element or attribute is absent or ill-typed), or a
// panic caught at a combinator boundary (Map, As). It satisfies
// Unwrap so callers can errors.As/errors.Is through it, the way jtree's
// *SyntaxError wraps the underlying cause.
type ParseError struct {
	Kind     string   // e.g. KindParseMismatch, "missing-attribute:name"
	Message  string
	Location Location // zero if the originating family has no position info

	err error
}

// NewParseError constructs a ParseError with no location information.
func NewParseError(kind, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewParseErrorAt constructs a ParseError carrying a source location.
func NewParseErrorAt(kind string, loc Location, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Message: fmt.Sprintf(format, args...), Location: loc}
}

// WithCause attaches an underlying cause to e, returning e for chaining.
func (e *ParseError) WithCause(cause error) *ParseError {
	e.err = cause
	return e
}

func (e *ParseError) Error() string {
	if e.Location.First.Line != 0 {
		return fmt.Sprintf("%s: at %d:%d: %s", e.Kind, e.Location.First.Line, e.Location.First.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap supports error wrapping.
func (e *ParseError) Unwrap() error { return e.err }

// A ProtocolError reports a violation of the Handler protocol (spec.md §4.1):
// a handler method called after IsFinished reported true, HandleEnd invoked
// more than once, or similar programmer errors. ProtocolError is only ever
// delivered via panic, and ordinary combinators (Map, As, matchers) must
// never catch it — only the driver boundary in Parse may, and only when the
// caller opted in with WithPanicAsError.
type ProtocolError struct {
	Message string
}

func (e *ProtocolError) Error() string { return "protocol violation: " + e.Message }

// panicProtocol raises a ProtocolError. It is called by core components that
// detect a violation of the Handler contract; it is a programmer error, not
// a recoverable one, so it is never wrapped in a Result.
func panicProtocol(format string, args ...any) {
	panic(&ProtocolError{Message: fmt.Sprintf(format, args...)})
}

// safeCall invokes f and converts any panic that is not a *ProtocolError into
// a returned error, mirroring jtree's handlerError wrap-and-unwrap at
// combinator edges (design note §9: "tryDo... only at combinator edges").
// ProtocolError panics are re-raised unchanged so they still abort the
// driver.
func safeCall(f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*ProtocolError); ok {
				panic(pe)
			}
			err = toError(r)
		}
	}()
	return f()
}

func toError(r any) error {
	if err, ok := r.(error); ok {
		return NewParseError(KindCombinatorFault, "%v", err).WithCause(err)
	}
	return NewParseError(KindCombinatorFault, "%v", r)
}
