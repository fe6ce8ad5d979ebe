package spac

// mapHandler adapts a Handler[In, Result[R]] into a Handler[In, Result[S]]
// by applying f to every Success value it produces, leaving Empty and Error
// untouched — MapResult lifted to the handler level.
type mapHandler[In Event, R, S any] struct {
	inner Handler[In, Result[R]]
	f     func(R) S
}

// Map transforms a Parser's result type through f, without looking at Ctx.
func Map[In Event, Ctx, R, S any](p Parser[In, Ctx, R], f func(R) S) Parser[In, Ctx, S] {
	return func(ctx Ctx) Handler[In, Result[S]] {
		return mapHandler[In, R, S]{inner: p(ctx), f: f}
	}
}

func (m mapHandler[In, R, S]) IsFinished() bool { return m.inner.IsFinished() }

func (m mapHandler[In, R, S]) HandleInput(e In) (Result[S], bool) {
	out, done := m.inner.HandleInput(e)
	return MapResult(out, m.f), done
}

func (m mapHandler[In, R, S]) HandleError(cause error) (Result[S], bool) {
	out, done := m.inner.HandleError(cause)
	return MapResult(out, m.f), done
}

func (m mapHandler[In, R, S]) HandleEnd() Result[S] {
	return MapResult(m.inner.HandleEnd(), m.f)
}

// firstHandler is the canonical `down` for a Splitter that should stop at
// the first matched sub-stream (spec.md §8 scenario "first short-circuit"):
// it finishes the instant any Result[A] arrives, whatever that Result is,
// and reports Empty if the stream ends with no sub-stream ever matched.
type firstHandler[A any] struct {
	finished bool
	result   Result[A]
}

// First builds a Handler[Result[A], Result[A]] that completes on the first
// delivered Result, making the Splitter it feeds stop consuming further
// matches as soon as one sub-stream completes.
func First[A any]() Handler[Result[A], Result[A]] { return &firstHandler[A]{} }

func (f *firstHandler[A]) IsFinished() bool { return f.finished }

func (f *firstHandler[A]) HandleInput(r Result[A]) (Result[A], bool) {
	if f.finished {
		panicProtocol("HandleInput called on a finished First handler")
	}
	f.finished = true
	f.result = r
	return r, true
}

func (f *firstHandler[A]) HandleError(cause error) (Result[A], bool) {
	if f.finished {
		panicProtocol("HandleError called on a finished First handler")
	}
	f.finished = true
	f.result = Failure[A](cause)
	return f.result, true
}

func (f *firstHandler[A]) HandleEnd() Result[A] {
	if f.finished {
		panicProtocol("HandleEnd called on a finished First handler")
	}
	f.finished = true
	return Void[A]()
}

// listHandler is the canonical `down` for a Splitter that should collect
// every matched sub-stream (spec.md §8 scenario "nested splitter list"): it
// never finishes early, accumulating every delivered Result until
// HandleEnd, at which point it collates them with List (first Error
// short-circuits the collated value; Empty entries are dropped).
type listHandler[A any] struct {
	finished bool
	items    []Result[A]
}

// AsListOf builds a Handler[Result[A], Result[[]A]] that collects every
// matched sub-stream's Result into a single Result[[]A] at end of input.
func AsListOf[A any]() Handler[Result[A], Result[[]A]] { return &listHandler[A]{} }

func (l *listHandler[A]) IsFinished() bool { return l.finished }

func (l *listHandler[A]) HandleInput(r Result[A]) (Result[[]A], bool) {
	if l.finished {
		panicProtocol("HandleInput called on a finished AsListOf handler")
	}
	l.items = append(l.items, r)
	var zero Result[[]A]
	return zero, false
}

func (l *listHandler[A]) HandleError(cause error) (Result[[]A], bool) {
	if l.finished {
		panicProtocol("HandleError called on a finished AsListOf handler")
	}
	l.items = append(l.items, Failure[A](cause))
	var zero Result[[]A]
	return zero, false
}

func (l *listHandler[A]) HandleEnd() Result[[]A] {
	if l.finished {
		panicProtocol("HandleEnd called on a finished AsListOf handler")
	}
	l.finished = true
	return List(l.items)
}

// SplitSpec bundles one alternative of a OneOf: the path it matches and the
// inner parser factory to run over the matched sub-stream.
type SplitSpec[In Event, Ctx, A any] struct {
	Matcher ContextMatcher[Ctx]
	Make    func(Ctx) Handler[In, Result[A]]
}

// firstSuccessHandler is OneOf's own `down`, distinct from First: it only
// short-circuits on a Success, the way spec.md §4.7 requires — "the first
// to emit Success wins; if all yield Empty, result is Empty; any Error is
// retained and returned if no Success is found." An Empty or Error arriving
// from one alternative must not stop the remaining, still-live alternatives
// from seeing the same event (First's policy, used for Splitter's own
// first[T] of spec.md §8 scenario 4, would wrongly let the first alternative
// to merely fail or come up empty win over a later alternative that matches
// the actual shape).
type firstSuccessHandler[A any] struct {
	finished bool
	result   Result[A]
	hasErr   bool
	err      Result[A]
}

// firstSuccess builds OneOf's down handler.
func firstSuccess[A any]() Handler[Result[A], Result[A]] { return &firstSuccessHandler[A]{} }

func (f *firstSuccessHandler[A]) IsFinished() bool { return f.finished }

func (f *firstSuccessHandler[A]) HandleInput(r Result[A]) (Result[A], bool) {
	if f.finished {
		panicProtocol("HandleInput called on a finished firstSuccess handler")
	}
	if r.IsSuccess() {
		f.finished = true
		f.result = r
		return r, true
	}
	if r.IsError() && !f.hasErr {
		f.hasErr = true
		f.err = r
	}
	var zero Result[A]
	return zero, false
}

func (f *firstSuccessHandler[A]) HandleError(cause error) (Result[A], bool) {
	if f.finished {
		panicProtocol("HandleError called on a finished firstSuccess handler")
	}
	f.finished = true
	f.result = Failure[A](cause)
	return f.result, true
}

func (f *firstSuccessHandler[A]) HandleEnd() Result[A] {
	if f.finished {
		panicProtocol("HandleEnd called on a finished firstSuccess handler")
	}
	f.finished = true
	if f.hasErr {
		f.result = f.err
		return f.err
	}
	return Void[A]()
}

// OneOf tries every alternative in specs concurrently over the same event
// stream (via Funnel) and resolves to whichever alternative's sub-stream
// completes first with a Success (spec.md §4.7). An alternative that comes
// up Empty or Error does not stop its still-live siblings from seeing
// further events — only a Success ends the whole OneOf early; without one,
// it ends at HandleEnd with the first recorded Error, or else Empty. Ties — two alternatives succeeding on the very
// same event — are broken in favor of the lowest index, simply because
// Funnel visits its children in index order and returns on the first one
// that reports done (spec.md §9 Open Question: "oneOf tie-breaking... we
// chose lowest-index wins").
func OneOf[In Event, Ctx, A any](specs ...SplitSpec[In, Ctx, A]) Handler[In, Result[A]] {
	ts := make([]Transformer[In, Result[A], Result[A]], len(specs))
	for i, sp := range specs {
		sp := sp
		ts[i] = func(down Handler[Result[A], Result[A]]) Handler[In, Result[A]] {
			return Split(sp.Matcher, sp.Make, down)
		}
	}
	return Funnel[In, Result[A], Result[A]](firstSuccess[A](), ts...)
}

// boxResultHandler erases a Handler[In, Result[T]] to a Handler[In, Result[any]],
// the type-erasure step compound.go's CompoundHandler needs to collect
// heterogeneously typed children into one slice (design note §9, replacing
// the Combined1..22 family a language with union/product types would use).
type boxResultHandler[In Event, T any] struct {
	inner Handler[In, Result[T]]
}

// Boxed adapts h for use as one slot of a CompoundHandler.
func Boxed[In Event, T any](h Handler[In, Result[T]]) Handler[In, Result[any]] {
	return boxResultHandler[In, T]{inner: h}
}

func (b boxResultHandler[In, T]) IsFinished() bool { return b.inner.IsFinished() }

func (b boxResultHandler[In, T]) HandleInput(e In) (Result[any], bool) {
	out, done := b.inner.HandleInput(e)
	return boxResult(out), done
}

func (b boxResultHandler[In, T]) HandleError(cause error) (Result[any], bool) {
	out, done := b.inner.HandleError(cause)
	return boxResult(out), done
}

func (b boxResultHandler[In, T]) HandleEnd() Result[any] {
	return boxResult(b.inner.HandleEnd())
}

func boxResult[T any](r Result[T]) Result[any] {
	switch {
	case r.IsError():
		return Failure[any](r.Cause())
	case r.IsEmpty():
		return Void[any]()
	default:
		return Success[any](r.Value())
	}
}

// unboxAt type-asserts the value at slots[i], which must have been filled
// by a boxResultHandler wrapping a Handler[In, Result[T]]. It panics (to be
// caught by combineSafe) if a caller mismatches the type it boxed — a
// programmer error in wiring a Compound, not a data error.
func unboxAt[T any](slots []any, i int) T { return slots[i].(T) }

// And combines two Parsers into one producing a 2-tuple, erasing both
// children through Boxed and combining with defaultCombine's Error/Empty
// poisoning policy (spec.md §4.3).
func And[In Event, Ctx, A, B any](pa Parser[In, Ctx, A], pb Parser[In, Ctx, B]) Parser[In, Ctx, Tuple2[A, B]] {
	return func(ctx Ctx) Handler[In, Result[Tuple2[A, B]]] {
		children := []Handler[In, Result[any]]{
			Boxed[In, A](pa(ctx)),
			Boxed[In, B](pb(ctx)),
		}
		combine := func(slots []Result[any]) Result[Tuple2[A, B]] {
			return defaultCombine(slots, func(vals []any) Tuple2[A, B] {
				return Tuple2[A, B]{First: unboxAt[A](vals, 0), Second: unboxAt[B](vals, 1)}
			})
		}
		return newCompoundHandler[In, Tuple2[A, B]](children, combine)
	}
}

// Tuple2 is the heterogeneous pair CompoundHandler combines two children
// into — the concrete replacement for the source's generated Combined2.
type Tuple2[A, B any] struct {
	First  A
	Second B
}

// Tuple3 is the 3-ary analogue used by As3/the three-child Compound form.
type Tuple3[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// As2 combines two already-built handlers (sharing In) into one handler
// producing Result[Tuple2[A, B]] — the lower-level entry point And uses,
// exposed directly for callers that already hold Handlers rather than
// Parsers (e.g. inside a hand-assembled Splitter pipeline).
func As2[In Event, A, B any](ha Handler[In, Result[A]], hb Handler[In, Result[B]]) Handler[In, Result[Tuple2[A, B]]] {
	children := []Handler[In, Result[any]]{Boxed[In, A](ha), Boxed[In, B](hb)}
	combine := func(slots []Result[any]) Result[Tuple2[A, B]] {
		return defaultCombine(slots, func(vals []any) Tuple2[A, B] {
			return Tuple2[A, B]{First: unboxAt[A](vals, 0), Second: unboxAt[B](vals, 1)}
		})
	}
	return newCompoundHandler[In, Tuple2[A, B]](children, combine)
}

// As3 is As2's 3-ary analogue.
func As3[In Event, A, B, C any](ha Handler[In, Result[A]], hb Handler[In, Result[B]], hc Handler[In, Result[C]]) Handler[In, Result[Tuple3[A, B, C]]] {
	children := []Handler[In, Result[any]]{Boxed[In, A](ha), Boxed[In, B](hb), Boxed[In, C](hc)}
	combine := func(slots []Result[any]) Result[Tuple3[A, B, C]] {
		return defaultCombine(slots, func(vals []any) Tuple3[A, B, C] {
			return Tuple3[A, B, C]{
				First:  unboxAt[A](vals, 0),
				Second: unboxAt[B](vals, 1),
				Third:  unboxAt[C](vals, 2),
			}
		})
	}
	return newCompoundHandler[In, Tuple3[A, B, C]](children, combine)
}

// As is As2/As3's arbitrary-arity generalization for callers that already
// have their children boxed and a custom combiner in hand — the general
// form the fixed-arity helpers are built from.
func As[In Event, R any](children []Handler[In, Result[any]], combine func([]any) R) Handler[In, Result[R]] {
	return newCompoundHandler[In, R](children, func(slots []Result[any]) Result[R] {
		return defaultCombine(slots, combine)
	})
}
