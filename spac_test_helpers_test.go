package spac_test

import (
	"io"

	"github.com/creachadair/spac"
)

// testEvent is a minimal spac.Event used to exercise the core kernel
// without depending on the xml/json packages: a frame is just a string
// name, content is a string value, and there is no Refine in this family
// (json's frame-refining is exercised directly in package json's tests).
type testEvent struct {
	kind  spac.ChangeKind
	name  string // meaningful for Push
	value string // meaningful for NoChange
}

func (e testEvent) ContextChange() (spac.ChangeKind, any) {
	if e.kind == spac.Push {
		return spac.Push, e.name
	}
	return e.kind, nil
}

func push(name string) testEvent  { return testEvent{kind: spac.Push, name: name} }
func pop() testEvent              { return testEvent{kind: spac.Pop} }
func content(value string) testEvent { return testEvent{kind: spac.NoChange, value: value} }

// name matches a single frame pushed by push(local).
func name(local string) spac.ContextMatcher[string] {
	return func(s *spac.Stack) (string, int, bool, error) {
		if s.Depth() == 0 {
			return "", 0, false, nil
		}
		fr, ok := s.At(0).(string)
		if !ok || fr != local {
			return "", 0, false, nil
		}
		return fr, 1, true, nil
	}
}

// textConsumer collects every content() value seen before the matched
// frame's own closing pop.
func textConsumer() spac.Consumer[testEvent, string] {
	return func(struct{}) spac.Handler[testEvent, spac.Result[string]] {
		return &textHandlerT{}
	}
}

type textHandlerT struct {
	started  bool
	depth    int
	buf      string
	finished bool
}

func (t *textHandlerT) IsFinished() bool { return t.finished }

func (t *textHandlerT) HandleInput(e testEvent) (spac.Result[string], bool) {
	switch e.kind {
	case spac.Push:
		if !t.started {
			t.started = true
		} else {
			t.depth++
		}
	case spac.Pop:
		if t.depth == 0 {
			t.finished = true
			return spac.Success(t.buf), true
		}
		t.depth--
	default:
		t.buf += e.value
	}
	var zero spac.Result[string]
	return zero, false
}

func (t *textHandlerT) HandleError(cause error) (spac.Result[string], bool) {
	t.finished = true
	return spac.Failure[string](cause), true
}

func (t *textHandlerT) HandleEnd() spac.Result[string] {
	t.finished = true
	return spac.Success(t.buf)
}

// sliceSource is a spac.Source over a fixed slice of events, for driver
// tests that don't need a real encoding underneath.
type sliceSource struct {
	events  []testEvent
	pos     int
	closeCt int
	failAt  int // if >= 0, Next reports sourceErr once when pos == failAt
	sourceErr error
}

func newSliceSource(events ...testEvent) *sliceSource {
	return &sliceSource{events: events, failAt: -1}
}

func (s *sliceSource) Next() (testEvent, error) {
	if s.pos == s.failAt {
		s.failAt = -1 // fire exactly once
		return testEvent{}, s.sourceErr
	}
	if s.pos >= len(s.events) {
		return testEvent{}, io.EOF
	}
	e := s.events[s.pos]
	s.pos++
	return e, nil
}

func (s *sliceSource) Close() error {
	s.closeCt++
	return nil
}

var _ spac.Source[testEvent] = (*sliceSource)(nil)
