package spac

import (
	"errors"
	"io"
	"log/slog"
)

// A Source produces a finite, lazy sequence of events plus a release hook
// (spec.md §4.2 "Event Source adapter": `open(S) -> (Iterator<Event>,
// close)`). Combining the iterator and the release hook into one value,
// rather than returning them as a pair from an Open function, is the usual
// Go rendering of that shape — the same shape io.ReadCloser gives a byte
// stream plus its release hook.
//
// Next returns io.EOF once the stream is exhausted; any other non-nil error
// is a source fault (spec.md §7 kind 1) and is delivered to the running
// handler's HandleError rather than aborting the driver outright. Close
// must be idempotent: the driver may call it more than once (normal end,
// short-circuit, panic) and every call after the first must be a no-op
// (spec.md §5 "Resource discipline").
type Source[E Event] interface {
	Next() (E, error)
	Close() error
}

// Parser is an immutable handler factory parameterized by a context value
// supplied by whatever Splitter matched the sub-stream it will run over
// (spec.md §3 "Parser factory protocol": `make_handler(ctx) ->
// Handler<Event, Result<R>>`). Parsers compose by ordinary function
// composition and by the combinators in combinators.go (Map, And, OneOf, …).
type Parser[In Event, Ctx, R any] func(ctx Ctx) Handler[In, Result[R]]

// Consumer is the context-free specialization of Parser: a driver-level
// parser that needs no context from an enclosing match (spec.md §3 "A
// Consumer: a driver-level parser without a context requirement").
type Consumer[In Event, R any] Parser[In, struct{}, R]

// AsParser adapts a Consumer to the Parser shape so it can be used wherever
// a context-carrying factory is expected; the context value is discarded.
func AsParser[In Event, Ctx, R any](c Consumer[In, R]) Parser[In, Ctx, R] {
	return func(Ctx) Handler[In, Result[R]] { return c(struct{}{}) }
}

// ErrEmpty is returned by WrapSafe when the wrapped parser produced an
// Empty Result — there is no parser-specific error to report, but no value
// was produced either.
var ErrEmpty = errors.New("spac: parser produced no result")

// WrapSafe converts a Result into the (value, error) shape idiomatic Go
// callers expect at a module boundary (spec.md §7 "wrapSafe / unwrapSafe
// convert between a Result-valued parser and a raw-valued parser for
// interop with external callers"). Success yields (v, nil); Empty yields
// (zero, ErrEmpty); Error yields (zero, cause).
func WrapSafe[R any](r Result[R]) (R, error) {
	switch {
	case r.IsError():
		var zero R
		return zero, r.Cause()
	case r.IsEmpty():
		var zero R
		return zero, ErrEmpty
	default:
		return r.Value(), nil
	}
}

// UnwrapSafe is WrapSafe's inverse: it lifts a (value, error) pair from an
// external, non-Result-aware function back into a Result, for use inside a
// combinator pipeline. A non-nil err (including ErrEmpty) becomes a
// Failure; otherwise v becomes a Success.
func UnwrapSafe[R any](v R, err error) Result[R] {
	if err != nil {
		return Failure[R](err)
	}
	return Success(v)
}

// parseConfig holds Parse's functional-option state.
type parseConfig struct {
	logger       *slog.Logger
	panicAsError bool
}

// Option configures a Parse call. The functional-options shape follows the
// config pattern used throughout the example corpus (e.g.
// arturoeanton-go-xml's Option/WithX constructors).
type Option func(*parseConfig)

// WithLogger attaches a logger that Parse uses to report source faults and
// the final outcome at debug level. The zero value (no option) parses
// silently.
func WithLogger(l *slog.Logger) Option {
	return func(c *parseConfig) { c.logger = l }
}

// WithPanicAsError causes Parse to recover a *ProtocolError panic and
// return it as an ordinary error instead of letting it propagate. Every
// other panic (a combinator fault not already converted by safeCall, or a
// deliberate panic from caller code) is always re-raised regardless of this
// option — only the Handler-protocol's own internal consistency checks are
// ever eligible for this treatment.
func WithPanicAsError() Option {
	return func(c *parseConfig) { c.panicAsError = true }
}

func newParseConfig(opts []Option) *parseConfig {
	c := &parseConfig{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Parse drives src through h until a result is produced or the input is
// exhausted, releasing src exactly once on every exit path — normal end,
// short-circuit, source fault, or panic (spec.md §4.2's four-step driver
// loop, mirroring jtree's Stream.Parse recover boundary).
func Parse[In Event, R any](src Source[In], h Handler[In, Result[R]], opts ...Option) (result Result[R], err error) {
	cfg := newParseConfig(opts)

	var closed bool
	defer func() {
		if closed {
			return
		}
		closed = true
		if cerr := src.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*ProtocolError); ok && cfg.panicAsError {
				err = pe
				return
			}
			panic(r)
		}
	}()

	for {
		e, nerr := src.Next()
		if nerr == io.EOF {
			result = h.HandleEnd()
			logOutcome(cfg.logger, result, nil)
			return result, nil
		}
		if nerr != nil {
			logOutcome(cfg.logger, Result[R]{}, nerr)
			out, done := h.HandleError(nerr)
			if done {
				return out, nil
			}
			continue
		}
		if out, done := h.HandleInput(e); done {
			logOutcome(cfg.logger, out, nil)
			return out, nil
		}
	}
}

func logOutcome[R any](l *slog.Logger, result Result[R], sourceFault error) {
	if l == nil {
		return
	}
	switch {
	case sourceFault != nil:
		l.Debug("spac: source fault", "error", sourceFault)
	case result.IsError():
		l.Debug("spac: parse finished with error", "error", result.Cause())
	case result.IsEmpty():
		l.Debug("spac: parse finished empty")
	default:
		l.Debug("spac: parse finished")
	}
}
