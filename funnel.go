package spac

// Transformer is an immutable factory that, given the real downstream
// handler it should eventually feed, builds a handler consuming In and
// producing Out — the same Out the downstream itself produces (spec.md §3
// "Transformer<In, A> produces handlers that emit a stream of A to a
// downstream Handler<A, _>"). Representing it as a function from downstream
// to handler, rather than a standalone interface with a method generic over
// the eventual downstream result type, sidesteps Go's lack of higher-kinded
// types (design note §9): Transformer is just parameterized by Out like
// everything else instead of being rank-2 polymorphic over it.
//
// Split (splitter.go) is the prototypical Transformer constructor: fix its
// matcher and inner-parser factory, and Split(matcher, mk, down) for any
// down is a Transformer[In, Result[A], Out] once down is supplied.
type Transformer[In, A, Out any] func(down Handler[A, Out]) Handler[In, Out]

// funnelShared is the state a FunnelledTransformerHandler's guarded proxies
// all coordinate through: the one real downstream handler, and whether it
// has actually finished.
type funnelShared[A, Out any] struct {
	down     Handler[A, Out]
	finished bool
	result   Out
}

// guardedProxy stands in for the real downstream inside each funnel: it
// forwards HandleInput/HandleError untouched, but swallows HandleEnd —
// returning a zero-value sentinel instead of ending the real downstream —
// so that one funnel reaching its own end does not prematurely end a
// downstream that other, still-live funnels are also feeding (spec.md §4.6).
//
// A funnel may legitimately keep emitting into a live downstream after a
// sibling funnel has observed its own EOF; the guard only ever blocks
// HandleEnd, never HandleInput/HandleError (the Open Question resolution of
// spec.md §9).
type guardedProxy[A, Out any] struct {
	shared *funnelShared[A, Out]
}

func (p guardedProxy[A, Out]) IsFinished() bool { return p.shared.finished }

func (p guardedProxy[A, Out]) HandleInput(a A) (Out, bool) {
	if p.shared.finished {
		panicProtocol("HandleInput called on a finished funnel proxy")
	}
	out, done := p.shared.down.HandleInput(a)
	if done {
		p.shared.finished = true
		p.shared.result = out
	}
	return out, done
}

func (p guardedProxy[A, Out]) HandleError(cause error) (Out, bool) {
	if p.shared.finished {
		panicProtocol("HandleError called on a finished funnel proxy")
	}
	out, done := p.shared.down.HandleError(cause)
	if done {
		p.shared.finished = true
		p.shared.result = out
	}
	return out, done
}

// HandleEnd is the swallow point: it never reaches the real downstream and
// never marks it finished. Its return value is a sentinel — whoever called
// it must consult the shared state, not this value, to learn whether the
// real downstream actually finished.
func (p guardedProxy[A, Out]) HandleEnd() Out {
	var ignoredEnd Out
	return ignoredEnd
}

// funnelHandler implements the FunnelledTransformerHandler of spec.md §4.6.
type funnelHandler[In, A, Out any] struct {
	shared   *funnelShared[A, Out]
	children []Handler[In, Out]
}

// Funnel merges the transformers ts, all consuming the same In event stream,
// into a single handler that feeds their derived A-values to the one shared
// downstream handler down. Each transformer is attached to a guarded proxy
// of down so that one transformer reaching its own end does not end down
// while its siblings are still live.
func Funnel[In, A, Out any](down Handler[A, Out], ts ...Transformer[In, A, Out]) Handler[In, Out] {
	shared := &funnelShared[A, Out]{down: down}
	proxy := guardedProxy[A, Out]{shared: shared}
	children := make([]Handler[In, Out], len(ts))
	for i, t := range ts {
		children[i] = t(proxy)
	}
	return &funnelHandler[In, A, Out]{shared: shared, children: children}
}

func (f *funnelHandler[In, A, Out]) IsFinished() bool { return f.shared.finished }

func (f *funnelHandler[In, A, Out]) allChildrenFinished() bool {
	for _, ch := range f.children {
		if !ch.IsFinished() {
			return false
		}
	}
	return true
}

// finishFromDownEnd sends HandleEnd to the real downstream, recording the
// result as the funnel's own finish.
func (f *funnelHandler[In, A, Out]) finishFromDownEnd() Out {
	out := f.shared.down.HandleEnd()
	f.shared.finished = true
	f.shared.result = out
	return out
}

func (f *funnelHandler[In, A, Out]) HandleInput(e In) (Out, bool) {
	if f.shared.finished {
		panicProtocol("HandleInput called on a finished FunnelledTransformerHandler")
	}
	for _, ch := range f.children {
		if ch.IsFinished() {
			continue
		}
		// Concrete Transformers built by this package (Split and anything
		// composed from it) only ever report done once the shared real
		// downstream has genuinely finished, so a done result here is
		// always "a real downstream result" in spec.md §4.6's terms —
		// never the guarded proxy's swallowed sentinel.
		if out, done := ch.HandleInput(e); done {
			return out, true
		}
	}
	if f.allChildrenFinished() {
		return f.finishFromDownEnd(), true
	}
	var zero Out
	return zero, false
}

func (f *funnelHandler[In, A, Out]) HandleError(cause error) (Out, bool) {
	if f.shared.finished {
		panicProtocol("HandleError called on a finished FunnelledTransformerHandler")
	}
	for _, ch := range f.children {
		if ch.IsFinished() {
			continue
		}
		if out, done := ch.HandleError(cause); done {
			return out, true
		}
	}
	if f.allChildrenFinished() {
		return f.finishFromDownEnd(), true
	}
	var zero Out
	return zero, false
}

func (f *funnelHandler[In, A, Out]) HandleEnd() Out {
	if f.shared.finished {
		panicProtocol("HandleEnd called on a finished FunnelledTransformerHandler")
	}
	for _, ch := range f.children {
		if ch.IsFinished() {
			continue
		}
		ch.HandleEnd() // return value is indeterminate; consult shared state
		if f.shared.finished {
			return f.shared.result
		}
	}
	return f.finishFromDownEnd()
}
