package spac

// A Result is the three-valued outcome of a parser: Success carries a
// value, Empty means the parser matched nothing to report, and Error
// carries a cause. Result composes monadically: Map and FlatMap preserve
// Empty and Error unchanged, Filter can turn a Success into an Empty, and
// Recover can turn an Empty back into whatever a fallback produces. Any
// function passed to Map/FlatMap/Filter/Recover that panics has its panic
// converted into an Error, never propagated past the call (spec.md §3, §9).
type Result[T any] struct {
	ok   bool // true iff this is a Success
	fail bool // true iff this is an Error (mutually exclusive with ok)
	val  T
	err  error
}

// Success constructs a Result carrying v.
func Success[T any](v T) Result[T] { return Result[T]{ok: true, val: v} }

// Void returns an Empty Result.
func Void[T any]() Result[T] { return Result[T]{} }

// Failure constructs an Error Result carrying cause.
func Failure[T any](cause error) Result[T] { return Result[T]{fail: true, err: cause} }

// IsSuccess reports whether r is a Success.
func (r Result[T]) IsSuccess() bool { return r.ok }

// IsEmpty reports whether r is Empty.
func (r Result[T]) IsEmpty() bool { return !r.ok && !r.fail }

// IsError reports whether r is an Error.
func (r Result[T]) IsError() bool { return r.fail }

// Cause returns the error carried by an Error Result, or nil.
func (r Result[T]) Cause() error { return r.err }

// Value returns the value carried by a Success Result, and the zero value
// of T otherwise. Check IsSuccess first if the distinction matters.
func (r Result[T]) Value() T { return r.val }

// Get returns the carried value and whether r is a Success.
func (r Result[T]) Get() (T, bool) { return r.val, r.ok }

// Filter turns a Success whose value does not satisfy pred into Empty; it
// leaves Empty and Error unchanged. A panic inside pred becomes an Error.
func (r Result[T]) Filter(pred func(T) bool) Result[T] {
	if !r.ok {
		return r
	}
	var keep bool
	if err := safeCall(func() error {
		keep = pred(r.val)
		return nil
	}); err != nil {
		return Failure[T](err)
	}
	if !keep {
		return Void[T]()
	}
	return r
}

// Recover replaces an Empty Result with the outcome of f; Success and Error
// are returned unchanged. A panic inside f becomes an Error.
func (r Result[T]) Recover(f func() Result[T]) Result[T] {
	if !r.IsEmpty() {
		return r
	}
	var out Result[T]
	if err := safeCall(func() error {
		out = f()
		return nil
	}); err != nil {
		return Failure[T](err)
	}
	return out
}

// MapResult transforms a Success value through f, leaving Empty and Error
// unchanged (Result's functor law). A panic inside f becomes an Error.
//
// Go methods cannot introduce a new type parameter, so Map is a free
// function rather than a Result[T] method — the same shape jtree's query
// package uses for its Seq/Alt combinators operating across differently
// typed queries.
func MapResult[T, U any](r Result[T], f func(T) U) Result[U] {
	switch {
	case r.fail:
		return Failure[U](r.err)
	case !r.ok:
		return Void[U]()
	}
	var out U
	if err := safeCall(func() error {
		out = f(r.val)
		return nil
	}); err != nil {
		return Failure[U](err)
	}
	return Success(out)
}

// FlatMapResult chains a Result-producing function onto a Success value,
// leaving Empty and Error unchanged. A panic inside f becomes an Error.
func FlatMapResult[T, U any](r Result[T], f func(T) Result[U]) Result[U] {
	switch {
	case r.fail:
		return Failure[U](r.err)
	case !r.ok:
		return Void[U]()
	}
	var out Result[U]
	if err := safeCall(func() error {
		out = f(r.val)
		return nil
	}); err != nil {
		return Failure[U](err)
	}
	return out
}

// List collects a slice of Results into a single Result of a slice: Empty
// entries are dropped, the first Error encountered short-circuits and is
// returned, and otherwise the Success values are collected in order
// (spec.md §3 "list(results)").
func List[T any](results []Result[T]) Result[[]T] {
	out := make([]T, 0, len(results))
	for _, r := range results {
		if r.fail {
			return Failure[[]T](r.err)
		}
		if r.ok {
			out = append(out, r.val)
		}
	}
	return Success(out)
}
