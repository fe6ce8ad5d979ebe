package spac

// compoundHandler implements the CompoundHandler of spec.md §4.3: it runs a
// fixed vector of child handlers in lock-step on the same event stream and,
// once every child has produced a Result, invokes combine to compute the
// final Result[R].
//
// Each child is erased to Handler[In, Result[any]] (Boxed adapts a
// concrete Handler[In, Result[T]]) so that a compound can mix children of
// different result types — design note §9's "builder collecting child
// parsers into a vector and a combiner over a dynamic tuple", the
// replacement this spec calls for in place of a compile-time-generated
// Combined1..22 family.
type compoundHandler[In, R any] struct {
	children []Handler[In, Result[any]]
	slots    []Result[any]
	filled   []bool
	combine  func([]Result[any]) Result[R]

	finished bool
	result   Result[R]
}

func newCompoundHandler[In, R any](children []Handler[In, Result[any]], combine func([]Result[any]) Result[R]) *compoundHandler[In, R] {
	return &compoundHandler[In, R]{
		children: children,
		slots:    make([]Result[any], len(children)),
		filled:   make([]bool, len(children)),
		combine:  combine,
	}
}

func (c *compoundHandler[In, R]) IsFinished() bool { return c.finished }

// deliver feeds e (or an error) to every not-yet-finished child, in index
// order — the ordering guarantee of spec.md §4.3/§5: every child observes
// event i before any child observes event i+1.
func (c *compoundHandler[In, R]) deliver(step func(Handler[In, Result[any]]) (Result[any], bool)) {
	for i, ch := range c.children {
		if ch.IsFinished() {
			continue
		}
		if r, done := step(ch); done {
			c.slots[i] = r
			c.filled[i] = true
		}
	}
}

func (c *compoundHandler[In, R]) allFilled() bool {
	for _, f := range c.filled {
		if !f {
			return false
		}
	}
	return true
}

// combineSafe invokes combine, converting any panic at this combinator edge
// into a Result Error (design note §9's tryDo boundary).
func (c *compoundHandler[In, R]) combineSafe() Result[R] {
	var out Result[R]
	if err := safeCall(func() error {
		out = c.combine(c.slots)
		return nil
	}); err != nil {
		return Failure[R](err)
	}
	return out
}

func (c *compoundHandler[In, R]) finishIfReady() (Result[R], bool) {
	if c.finished {
		return c.result, true
	}
	if c.allFilled() {
		c.result = c.combineSafe()
		c.finished = true
		return c.result, true
	}
	return Result[R]{}, false
}

func (c *compoundHandler[In, R]) HandleInput(e In) (Result[R], bool) {
	if c.finished {
		panicProtocol("HandleInput called on a finished CompoundHandler")
	}
	c.deliver(func(ch Handler[In, Result[any]]) (Result[any], bool) { return ch.HandleInput(e) })
	return c.finishIfReady()
}

func (c *compoundHandler[In, R]) HandleError(cause error) (Result[R], bool) {
	if c.finished {
		panicProtocol("HandleError called on a finished CompoundHandler")
	}
	c.deliver(func(ch Handler[In, Result[any]]) (Result[any], bool) { return ch.HandleError(cause) })
	return c.finishIfReady()
}

func (c *compoundHandler[In, R]) HandleEnd() Result[R] {
	if c.finished {
		panicProtocol("HandleEnd called on a finished CompoundHandler")
	}
	for i, ch := range c.children {
		if !c.filled[i] {
			c.slots[i] = ch.HandleEnd()
			c.filled[i] = true
		}
	}
	c.result = c.combineSafe()
	c.finished = true
	return c.result
}

// defaultCombine poisons the compound with the first Error by index, then
// the first Empty by index (Empty is a weaker poison, per Result's own
// Map/FlatMap laws), and otherwise hands the plain values to f — the
// "typically, one Error ⇒ overall Error" default of spec.md §4.3/§7.
func defaultCombine[R any](slots []Result[any], f func([]any) R) Result[R] {
	for _, s := range slots {
		if s.IsError() {
			return Failure[R](s.Cause())
		}
	}
	for _, s := range slots {
		if s.IsEmpty() {
			return Void[R]()
		}
	}
	vals := make([]any, len(slots))
	for i, s := range slots {
		vals[i] = s.Value()
	}
	return Success(f(vals))
}
