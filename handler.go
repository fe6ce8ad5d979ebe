package spac

// A Handler is a push-driven state machine that consumes events of type In
// and emits at most one Out before it is done (spec.md §3/§4.1).
//
// The protocol is monotonic: once IsFinished reports true, the driver must
// not call any other method again. HandleInput and HandleError return
// (out, true) the moment the handler has a final result to report; after
// that, no further call is made. HandleEnd is called at most once, only
// when the input is exhausted without a prior (out, true) return.
//
// This mirrors jtree's own Handler interface (BeginObject/EndObject/.../
// EndOfInput) generalized from JSON-only methods to a single event type, so
// that the same abstraction serves XML, JSON, or any other event family
// that supplies a ContextChange projection.
type Handler[In, Out any] interface {
	// IsFinished reports whether this handler has already produced its
	// result and must not be called again.
	IsFinished() bool

	// HandleInput delivers the next event. It returns (out, true) if the
	// handler is now finished, or (zero, false) if it wants more input.
	HandleInput(in In) (Out, bool)

	// HandleError delivers a source-level fault (spec.md §7 kind 1). A
	// handler may absorb it (return false), terminate with it (return an
	// Out carrying the error, true), or let it propagate by panicking.
	HandleError(cause error) (Out, bool)

	// HandleEnd is called when the input is exhausted without the handler
	// having already finished. It must produce a final Out.
	HandleEnd() Out
}

// doneHandler is an already-finished Handler that returns a fixed value
// from HandleEnd and must never receive HandleInput/HandleError again. It
// is useful as the trivial base case for factories that can decide their
// result without looking at any input (e.g. a constant parser).
type doneHandler[In, Out any] struct {
	val Out
}

// Finished constructs a Handler that is immediately finished, reporting val
// from HandleEnd. It is a programmer error to deliver input to it.
func Finished[In, Out any](val Out) Handler[In, Out] { return doneHandler[In, Out]{val: val} }

func (doneHandler[In, Out]) IsFinished() bool { return true }

func (d doneHandler[In, Out]) HandleInput(In) (Out, bool) {
	panicProtocol("HandleInput called on a finished handler")
	panic("unreachable")
}

func (d doneHandler[In, Out]) HandleError(error) (Out, bool) {
	panicProtocol("HandleError called on a finished handler")
	panic("unreachable")
}

func (d doneHandler[In, Out]) HandleEnd() Out { return d.val }
