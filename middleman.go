package spac

// contextMiddleman implements the ContextMiddlemanHandler of spec.md §4.4:
// it installs a fresh inner handler each time a Splitter reports that a new
// sub-stream has opened, relays raw events to that inner handler while the
// sub-stream is open, and funnels each completed inner Result downstream as
// an input event to down.
//
// down's own input type is Result[A] rather than A: a matched sub-stream may
// fail to produce a value (context_start(Err) or an inner Error), and the
// downstream consumer (first, asListOf, a funnel's real sink, …) must still
// observe that outcome rather than have it silently dropped.
type contextMiddleman[In Event, Ctx, A, Out any] struct {
	mk   func(Ctx) Handler[In, Result[A]]
	down Handler[Result[A], Out]

	inner    Handler[In, Result[A]]
	finished bool
	result   Out
}

func newContextMiddleman[In Event, Ctx, A, Out any](
	mk func(Ctx) Handler[In, Result[A]],
	down Handler[Result[A], Out],
) *contextMiddleman[In, Ctx, A, Out] {
	return &contextMiddleman[In, Ctx, A, Out]{mk: mk, down: down}
}

func (m *contextMiddleman[In, Ctx, A, Out]) deliverToDown(r Result[A]) {
	out, done := m.down.HandleInput(r)
	if done {
		m.finished = true
		m.result = out
	}
}

// contextStart is called by the owning Splitter the instant a sub-stream
// opens. A non-nil matchErr means the matcher itself failed (spec.md §4.4
// "context_start(Err(e))"); that failure is surfaced to down exactly as if
// an inner handler had immediately reported an Error, and no inner handler
// is built (the non-nesting invariant guarantees contextStart is never
// called while inner is already set).
func (m *contextMiddleman[In, Ctx, A, Out]) contextStart(ctx Ctx, matchErr error) {
	if matchErr != nil {
		m.inner = nil
		m.deliverToDown(Failure[A](matchErr))
		return
	}
	m.inner = m.mk(ctx)
}

func (m *contextMiddleman[In, Ctx, A, Out]) handleInput(e In) {
	if m.inner == nil {
		return // outside any matched sub-stream: drop silently
	}
	if r, done := m.inner.HandleInput(e); done {
		m.inner = nil
		m.deliverToDown(r)
	}
}

func (m *contextMiddleman[In, Ctx, A, Out]) handleError(cause error) {
	if m.inner == nil {
		return
	}
	if r, done := m.inner.HandleError(cause); done {
		m.inner = nil
		m.deliverToDown(r)
	}
}

// contextEnd is called by the owning Splitter when the matched sub-stream's
// depth closes. It does not itself produce the middleman's overall result —
// only handleEnd (driver end-of-input) does — but a funnelled downstream may
// legitimately finish right here, which deliverToDown already records.
func (m *contextMiddleman[In, Ctx, A, Out]) contextEnd() {
	if m.inner == nil {
		return
	}
	r := m.inner.HandleEnd()
	m.inner = nil
	m.deliverToDown(r)
}

func (m *contextMiddleman[In, Ctx, A, Out]) handleEnd() Out {
	if m.inner != nil {
		r := m.inner.HandleEnd()
		m.inner = nil
		m.deliverToDown(r)
		if m.finished {
			return m.result
		}
	}
	return m.down.HandleEnd()
}
