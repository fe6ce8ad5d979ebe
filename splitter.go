package spac

// splitterHandler implements the Splitter of spec.md §4.5 paired with its
// ContextMiddlemanHandler: it tracks the context stack, opens a sub-stream
// when the matcher matches the whole current stack exactly, and closes it
// purely structurally once the stack depth falls back below the depth at
// which the match opened — immune to re-evaluation cost and nested
// false-positive bugs, per the spec's own rationale for depth-based close.
// A Refine of the matched frame itself (a JSON object's next member or an
// array's next element) also closes the open sub-stream, after which the
// matcher is evaluated again against the refined stack.
type splitterHandler[In Event, Ctx, A, Out any] struct {
	matcher ContextMatcher[Ctx]
	stack   Stack
	inSub   bool
	openAt  int
	mm      *contextMiddleman[In, Ctx, A, Out]
}

// Split builds a Handler that slices in into sub-streams matched by
// matcher, runs a fresh handler from mk over each sub-stream's events, and
// funnels every completed Result[A] downstream to down — the combined
// Splitter + ContextMiddlemanHandler of spec.md §4.4/§4.5. down decides
// when the whole thing is finished (e.g. First's down finishes after its
// first Result, AsListOf's down never finishes early).
func Split[In Event, Ctx, A, Out any](
	matcher ContextMatcher[Ctx],
	mk func(Ctx) Handler[In, Result[A]],
	down Handler[Result[A], Out],
) Handler[In, Out] {
	return &splitterHandler[In, Ctx, A, Out]{
		matcher: matcher,
		mm:      newContextMiddleman(mk, down),
	}
}

func (s *splitterHandler[In, Ctx, A, Out]) IsFinished() bool { return s.mm.finished }

func (s *splitterHandler[In, Ctx, A, Out]) step(kind ChangeKind, frame any) {
	if kind == Refine && s.stack.Depth() == 0 {
		// The frame being refined was opened before this splitter saw any
		// event (the triggering event of an enclosing match); there is no
		// frame of this splitter's own to refine.
		kind = NoChange
	}
	s.stack.apply(kind, frame)
	if s.inSub && kind == Refine && s.stack.Depth() == s.openAt {
		// The frame the open sub-stream matched now stands for a new member
		// or element, so the old sub-stream is over.
		s.mm.contextEnd()
		s.inSub = false
		if s.mm.finished {
			return
		}
	}
	if !s.inSub {
		if ctx, ok, err := MatchesExactly(s.matcher, &s.stack); err != nil {
			s.mm.contextStart(ctx, err)
			s.inSub = true
			s.openAt = s.stack.Depth()
		} else if ok {
			s.mm.contextStart(ctx, nil)
			s.inSub = true
			s.openAt = s.stack.Depth()
		}
	}
}

func (s *splitterHandler[In, Ctx, A, Out]) close() {
	if s.inSub && s.stack.Depth() < s.openAt {
		s.mm.contextEnd()
		s.inSub = false
	}
}

func (s *splitterHandler[In, Ctx, A, Out]) HandleInput(e In) (Out, bool) {
	if s.mm.finished {
		panicProtocol("HandleInput called on a finished Splitter")
	}
	kind, frame := e.ContextChange()
	s.step(kind, frame)
	s.mm.handleInput(e)
	s.close()
	return s.mm.result, s.mm.finished
}

func (s *splitterHandler[In, Ctx, A, Out]) HandleError(cause error) (Out, bool) {
	if s.mm.finished {
		panicProtocol("HandleError called on a finished Splitter")
	}
	s.mm.handleError(cause)
	return s.mm.result, s.mm.finished
}

func (s *splitterHandler[In, Ctx, A, Out]) HandleEnd() Out {
	if s.mm.finished {
		panicProtocol("HandleEnd called on a finished Splitter")
	}
	// A well-formed stream leaves the stack empty at end, which already
	// implies close() has fired for every opened sub-stream; this call
	// only matters for a malformed/truncated stream that ends mid-substream.
	s.close()
	return s.mm.handleEnd()
}
